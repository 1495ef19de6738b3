package routes

import (
	"net/http"

	"github.com/codequest/back/internal/api/handlers"
	"github.com/codequest/back/internal/api/middleware"
	"github.com/codequest/back/internal/utils"
)

// Router sets up all the routes for the application
func NewRouter(
	authHandler *handlers.AuthHandler,
	challengeHandler *handlers.ChallengeHandler,
	healthHandler *handlers.HealthHandler,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/", healthHandler.Health)
	mux.HandleFunc("/health", healthHandler.Health)

	// Authentication endpoints
	mux.HandleFunc("/api/login", authHandler.Login)
	mux.HandleFunc("/api/forgot-password", authHandler.ForgotPassword)
	mux.HandleFunc("/api/logout", authHandler.Logout)

	// User info endpoint (supports GET and OPTIONS)
	mux.HandleFunc("/api/user-info", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET", "OPTIONS":
			authHandler.GetUserInfo(w, r)
		default:
			utils.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Challenge list and creation
	mux.HandleFunc("/api/challenges", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET", "OPTIONS":
			challengeHandler.ListChallenges(w, r)
		case "POST":
			challengeHandler.CreateChallenge(w, r)
		default:
			utils.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// AI challenge generation
	mux.HandleFunc("/api/challenges/generate", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "POST", "OPTIONS":
			challengeHandler.GenerateChallenge(w, r)
		default:
			utils.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Challenge detail and solution submission
	mux.HandleFunc("/api/challenges/", challengeHandler.ChallengeByID)

	// Apply CORS middleware to all routes
	return middleware.CORSMiddleware(mux)
}
