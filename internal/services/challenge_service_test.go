package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/codequest/back/internal/models"
	"github.com/codequest/back/internal/repositories"
)

// stubAIService はAI呼び出しを固定応答に差し替えるテスト用実装です
type stubAIService struct {
	genResult   *models.GenerationResult
	genErr      error
	feedback    string
	feedbackErr error
}

func (s *stubAIService) GenerateNewChallenge(ctx context.Context, difficulty, topic, username string) (*models.GenerationResult, error) {
	if s.genErr != nil {
		return nil, s.genErr
	}
	return s.genResult, nil
}

func (s *stubAIService) GetChallengeFeedback(ctx context.Context, solutionText string, challenge *models.Challenge, username string) (string, error) {
	if s.feedbackErr != nil {
		return "", s.feedbackErr
	}
	return s.feedback, nil
}

func testUser() *models.User {
	return &models.User{ID: 1, Username: "demo", Email: "demo@example.com"}
}

func seedChallenges(t *testing.T, repo repositories.ChallengeRepository, n int) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < n; i++ {
		challenge := &models.Challenge{
			Title:       fmt.Sprintf("Challenge %d", i+1),
			Description: fmt.Sprintf("Description %d", i+1),
			Difficulty:  "beginner",
			Hints:       []string{"a", "b", "c"},
			CreatedBy:   1,
			CreatorName: "demo",
			IsApproved:  true,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(context.Background(), challenge); err != nil {
			t.Fatalf("failed to seed challenge: %v", err)
		}
	}
}

func TestGenerateAIChallengePersistsDraft(t *testing.T) {
	challengeRepo := repositories.NewMemoryChallengeRepository()
	solutionRepo := repositories.NewMemorySolutionRepository()
	ai := &stubAIService{
		genResult: &models.GenerationResult{
			Raw: "TITLE: Reverse a List\nDESCRIPTION:\nReverse it in place.\nHINT_1: walk from both ends",
			Hints: map[string]string{
				"hint_1": "walk from both ends",
			},
		},
	}
	svc := NewChallengeService(challengeRepo, solutionRepo, ai)

	challenge, err := svc.GenerateAIChallenge(context.Background(), models.GenerateChallengeRequest{}, testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if challenge.Title != "Reverse a List" {
		t.Errorf("expected parsed title, got %q", challenge.Title)
	}
	if challenge.Description != "Reverse it in place." {
		t.Errorf("expected parsed description, got %q", challenge.Description)
	}
	if !challenge.IsAIGenerated {
		t.Error("expected challenge to be marked AI generated")
	}
	if !challenge.IsApproved {
		t.Error("expected AI challenge to be auto approved")
	}
	if challenge.Difficulty != "beginner" {
		t.Errorf("expected default difficulty beginner, got %q", challenge.Difficulty)
	}
	if challenge.Hints[0] != "walk from both ends" {
		t.Errorf("expected first hint from side channel, got %q", challenge.Hints[0])
	}
	if len(challenge.Hints) != 3 {
		t.Fatalf("expected 3 hints, got %d", len(challenge.Hints))
	}

	// 生成されたチャレンジは一覧から見えること
	saved, err := challengeRepo.GetApprovedByID(context.Background(), challenge.ID)
	if err != nil {
		t.Fatalf("expected challenge to be persisted: %v", err)
	}
	if saved.Title != challenge.Title {
		t.Errorf("persisted title mismatch: %q", saved.Title)
	}
}

func TestGenerateAIChallengeFailureDoesNotPersist(t *testing.T) {
	challengeRepo := repositories.NewMemoryChallengeRepository()
	solutionRepo := repositories.NewMemorySolutionRepository()
	ai := &stubAIService{genErr: fmt.Errorf("provider unavailable")}
	svc := NewChallengeService(challengeRepo, solutionRepo, ai)

	_, err := svc.GenerateAIChallenge(context.Background(), models.GenerateChallengeRequest{Difficulty: "advanced"}, testUser())
	if err == nil {
		t.Fatal("expected error when AI generation fails")
	}

	count, err := challengeRepo.CountApproved(context.Background(), "", "")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no challenge persisted on AI failure, got %d", count)
	}
}

func TestSubmitSolutionRecordsFeedback(t *testing.T) {
	challengeRepo := repositories.NewMemoryChallengeRepository()
	solutionRepo := repositories.NewMemorySolutionRepository()
	ai := &stubAIService{feedback: "Nice work on the loop!"}
	svc := NewChallengeService(challengeRepo, solutionRepo, ai)
	seedChallenges(t, challengeRepo, 1)

	solution, err := svc.SubmitSolution(context.Background(), 1, models.SubmitSolutionRequest{SolutionText: "my answer"}, testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !solution.IsCorrect {
		t.Error("expected solution to be marked correct")
	}
	if solution.CorrectnessLevel != "correct" {
		t.Errorf("expected correctness level correct, got %q", solution.CorrectnessLevel)
	}
	if solution.AIFeedback != "Nice work on the loop!" {
		t.Errorf("expected AI feedback, got %q", solution.AIFeedback)
	}
}

func TestSubmitSolutionAIFailureFallsBack(t *testing.T) {
	challengeRepo := repositories.NewMemoryChallengeRepository()
	solutionRepo := repositories.NewMemorySolutionRepository()
	ai := &stubAIService{feedbackErr: fmt.Errorf("rate limited")}
	svc := NewChallengeService(challengeRepo, solutionRepo, ai)
	seedChallenges(t, challengeRepo, 1)

	solution, err := svc.SubmitSolution(context.Background(), 1, models.SubmitSolutionRequest{SolutionText: "my answer"}, testUser())
	if err != nil {
		t.Fatalf("AI failure must not fail the submission: %v", err)
	}

	if !strings.Contains(solution.AIFeedback, "demo") {
		t.Errorf("fallback feedback should mention the username, got %q", solution.AIFeedback)
	}
	if !strings.Contains(solution.AIFeedback, "taking a break") {
		t.Errorf("expected fallback message, got %q", solution.AIFeedback)
	}

	// 提出自体は保存されていること
	latest, err := solutionRepo.GetLatestByChallengeAndUser(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("failed to load solution: %v", err)
	}
	if latest == nil {
		t.Fatal("expected solution to be persisted despite AI failure")
	}
}

func TestSubmitSolutionUnknownChallenge(t *testing.T) {
	svc := NewChallengeService(repositories.NewMemoryChallengeRepository(), repositories.NewMemorySolutionRepository(), &stubAIService{})

	_, err := svc.SubmitSolution(context.Background(), 42, models.SubmitSolutionRequest{SolutionText: "x"}, testUser())
	if err == nil || err.Error() != "challenge not found" {
		t.Errorf("expected challenge not found, got %v", err)
	}
}

func TestListChallengesPagination(t *testing.T) {
	challengeRepo := repositories.NewMemoryChallengeRepository()
	solutionRepo := repositories.NewMemorySolutionRepository()
	svc := NewChallengeService(challengeRepo, solutionRepo, &stubAIService{})
	seedChallenges(t, challengeRepo, 13)

	list, err := svc.ListChallenges(context.Background(), 1, "", "", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if list.TotalChallenges != 13 {
		t.Errorf("expected 13 challenges, got %d", list.TotalChallenges)
	}
	if list.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", list.TotalPages)
	}
	if len(list.Challenges) != 6 {
		t.Errorf("expected 6 challenges on page 2, got %d", len(list.Challenges))
	}
	if !list.HasPrev || !list.HasNext {
		t.Errorf("expected page 2 of 3 to have prev and next, got prev=%v next=%v", list.HasPrev, list.HasNext)
	}

	// 新しい順に並んでいること
	for i := 1; i < len(list.Challenges); i++ {
		if list.Challenges[i].CreatedAt.After(list.Challenges[i-1].CreatedAt) {
			t.Errorf("challenges not ordered newest first at index %d", i)
		}
	}
}

func TestListChallengesPageClamping(t *testing.T) {
	challengeRepo := repositories.NewMemoryChallengeRepository()
	svc := NewChallengeService(challengeRepo, repositories.NewMemorySolutionRepository(), &stubAIService{})
	seedChallenges(t, challengeRepo, 13)

	list, err := svc.ListChallenges(context.Background(), 1, "", "", 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.CurrentPage != 3 {
		t.Errorf("expected page clamped to 3, got %d", list.CurrentPage)
	}
	if len(list.Challenges) != 1 {
		t.Errorf("expected 1 challenge on last page, got %d", len(list.Challenges))
	}

	list, err = svc.ListChallenges(context.Background(), 1, "", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.CurrentPage != 1 {
		t.Errorf("expected page clamped to 1, got %d", list.CurrentPage)
	}
}

func TestListChallengesPageRange(t *testing.T) {
	challengeRepo := repositories.NewMemoryChallengeRepository()
	svc := NewChallengeService(challengeRepo, repositories.NewMemorySolutionRepository(), &stubAIService{})
	seedChallenges(t, challengeRepo, 40) // 7ページ分

	list, err := svc.ListChallenges(context.Background(), 1, "", "", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []int{2, 3, 4, 5, 6}
	if len(list.PageRange) != len(expected) {
		t.Fatalf("expected page range %v, got %v", expected, list.PageRange)
	}
	for i, p := range expected {
		if list.PageRange[i] != p {
			t.Fatalf("expected page range %v, got %v", expected, list.PageRange)
		}
	}

	list, err = svc.ListChallenges(context.Background(), 1, "", "", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.PageRange) == 0 || list.PageRange[0] != 1 || list.PageRange[len(list.PageRange)-1] != 3 {
		t.Errorf("expected page range 1..3 for first page, got %v", list.PageRange)
	}
}

func TestListChallengesIncludesUserSolutions(t *testing.T) {
	challengeRepo := repositories.NewMemoryChallengeRepository()
	solutionRepo := repositories.NewMemorySolutionRepository()
	ai := &stubAIService{feedback: "Looks good"}
	svc := NewChallengeService(challengeRepo, solutionRepo, ai)
	seedChallenges(t, challengeRepo, 2)

	if _, err := svc.SubmitSolution(context.Background(), 1, models.SubmitSolutionRequest{SolutionText: "done"}, testUser()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	list, err := svc.ListChallenges(context.Background(), 1, "", "", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := list.UserSolutions[1]; !ok {
		t.Error("expected user solution for challenge 1")
	}
	if _, ok := list.UserSolutions[2]; ok {
		t.Error("did not expect user solution for challenge 2")
	}
}

func TestGetChallengeReturnsLatestSolution(t *testing.T) {
	challengeRepo := repositories.NewMemoryChallengeRepository()
	solutionRepo := repositories.NewMemorySolutionRepository()
	ai := &stubAIService{feedback: "ok"}
	svc := NewChallengeService(challengeRepo, solutionRepo, ai)
	seedChallenges(t, challengeRepo, 1)

	if _, err := svc.SubmitSolution(context.Background(), 1, models.SubmitSolutionRequest{SolutionText: "first try"}, testUser()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := svc.SubmitSolution(context.Background(), 1, models.SubmitSolutionRequest{SolutionText: "second try"}, testUser()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	challenge, solution, err := svc.GetChallenge(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if challenge.ID != 1 {
		t.Errorf("expected challenge 1, got %d", challenge.ID)
	}
	if solution == nil {
		t.Fatal("expected a user solution")
	}
	if solution.SolutionText != "second try" {
		t.Errorf("expected latest solution, got %q", solution.SolutionText)
	}
}
