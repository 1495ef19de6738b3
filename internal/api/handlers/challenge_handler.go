package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/codequest/back/internal/models"
	"github.com/codequest/back/internal/services"
	"github.com/codequest/back/internal/utils"
)

type ChallengeHandler struct {
	challengeService services.ChallengeService
	authService      services.AuthService
}

func NewChallengeHandler(challengeService services.ChallengeService, authService services.AuthService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		authService:      authService,
	}
}

// ListChallenges 承認済みチャレンジの一覧を返す（難易度フィルター・検索・ページング対応）
func (h *ChallengeHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	// 認証トークンを取得
	token := r.Header.Get("Authorization")
	if token == "" {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	// "Bearer " プレフィックスを削除
	if len(token) > 7 && token[:7] == "Bearer " {
		token = token[7:]
	}

	// トークンからユーザー情報を取得
	user, err := h.authService.ValidateToken(r.Context(), token)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid authentication token")
		return
	}

	// クエリパラメータから検索条件を取得
	difficulty := r.URL.Query().Get("difficulty")
	query := r.URL.Query().Get("q")
	page := 1
	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		if parsed, err := strconv.Atoi(pageParam); err == nil {
			page = parsed
		}
	}

	list, err := h.challengeService.ListChallenges(r.Context(), user.ID, difficulty, query, page)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"challenges":        list.Challenges,
		"total_challenges":  list.TotalChallenges,
		"total_pages":       list.TotalPages,
		"current_page":      list.CurrentPage,
		"has_prev":          list.HasPrev,
		"has_next":          list.HasNext,
		"page_range":        list.PageRange,
		"difficulty_filter": list.DifficultyFilter,
		"query":             list.Query,
		"user_solutions":    list.UserSolutions,
	})
}

// CreateChallenge ユーザー作成のチャレンジを登録
func (h *ChallengeHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	// 認証トークンを取得
	token := r.Header.Get("Authorization")
	if token == "" {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	// "Bearer " プレフィックスを削除
	if len(token) > 7 && token[:7] == "Bearer " {
		token = token[7:]
	}

	// トークンからユーザー情報を取得
	user, err := h.authService.ValidateToken(r.Context(), token)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid authentication token")
		return
	}

	var req models.CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// バリデーション
	if req.Title == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Title is required")
		return
	}
	if req.Description == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Description is required")
		return
	}
	if req.Difficulty == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Difficulty is required")
		return
	}

	challenge, err := h.challengeService.CreateChallenge(r.Context(), req, user)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "There was an error saving your challenge. Please try again.")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Your challenge has been created!",
		"challenge": challenge,
	})
}

// GenerateChallenge AIでチャレンジを生成
func (h *ChallengeHandler) GenerateChallenge(w http.ResponseWriter, r *http.Request) {
	// 認証トークンを取得
	token := r.Header.Get("Authorization")
	if token == "" {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	// "Bearer " プレフィックスを削除
	if len(token) > 7 && token[:7] == "Bearer " {
		token = token[7:]
	}

	// トークンからユーザー情報を取得
	user, err := h.authService.ValidateToken(r.Context(), token)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid authentication token")
		return
	}

	var req models.GenerateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	challenge, err := h.challengeService.GenerateAIChallenge(r.Context(), req, user)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "There was an error generating your challenge. Please try again.")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Your AI challenge has been generated!",
		"challenge": challenge,
	})
}

// ChallengeByID /api/challenges/{id}と/api/challenges/{id}/solutionsを処理
func (h *ChallengeHandler) ChallengeByID(w http.ResponseWriter, r *http.Request) {
	// 認証トークンを取得
	token := r.Header.Get("Authorization")
	if token == "" {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	// "Bearer " プレフィックスを削除
	if len(token) > 7 && token[:7] == "Bearer " {
		token = token[7:]
	}

	// トークンからユーザー情報を取得
	user, err := h.authService.ValidateToken(r.Context(), token)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid authentication token")
		return
	}

	// パスからチャレンジIDを取得
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/challenges/"), "/")
	parts := strings.Split(rest, "/")

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid challenge ID")
		return
	}

	switch {
	case len(parts) == 1 && (r.Method == "GET" || r.Method == "OPTIONS"):
		h.getChallengeDetail(w, r, id, user)
	case len(parts) == 2 && parts[1] == "solutions" && r.Method == "POST":
		h.submitSolution(w, r, id, user)
	case len(parts) == 1 || (len(parts) == 2 && parts[1] == "solutions"):
		utils.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not found")
	}
}

// getChallengeDetail チャレンジ詳細とユーザーの最新の提出を返す
func (h *ChallengeHandler) getChallengeDetail(w http.ResponseWriter, r *http.Request, id int64, user *models.User) {
	challenge, solution, err := h.challengeService.GetChallenge(r.Context(), id, user.ID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Challenge not found")
		return
	}

	response := map[string]interface{}{
		"success":          true,
		"challenge":        challenge,
		"description_html": utils.RenderMarkdown(challenge.Description),
	}
	if solution != nil {
		response["user_solution"] = solution
	}

	utils.WriteJSONResponse(w, http.StatusOK, response)
}

// submitSolution 解答を提出してAIフィードバックを受け取る
func (h *ChallengeHandler) submitSolution(w http.ResponseWriter, r *http.Request, id int64, user *models.User) {
	var req models.SubmitSolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// バリデーション
	if req.SolutionText == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Solution text is required")
		return
	}

	solution, err := h.challengeService.SubmitSolution(r.Context(), id, req, user)
	if err != nil {
		if err.Error() == "challenge not found" {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Challenge not found")
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "There was an error saving your solution. Please try again.")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Your solution has been submitted! Check out the AI feedback.",
		"solution": solution,
	})
}
