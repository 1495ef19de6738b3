package middleware

import (
	"net/http"

	"github.com/codequest/back/internal/utils"
)

// CORSMiddleware sets the CORS headers on every response and answers
// preflight requests before they reach the route handlers.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.EnableCORS(w)

		// プリフライトはここで完結させる
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
