package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/codequest/back/internal/clients"
	"github.com/codequest/back/internal/models"
	"github.com/codequest/back/internal/utils"
)

// AIChallengeService owns the two AI surfaces of the platform: generating a
// new challenge and producing feedback on a submitted solution.
type AIChallengeService interface {
	GenerateNewChallenge(ctx context.Context, difficulty, topic, username string) (*models.GenerationResult, error)
	GetChallengeFeedback(ctx context.Context, solutionText string, challenge *models.Challenge, username string) (string, error)
}

type aiChallengeService struct {
	client       clients.AIClient
	promptLoader *utils.PromptLoader
}

func NewAIChallengeService(client clients.AIClient, promptLoader *utils.PromptLoader) AIChallengeService {
	return &aiChallengeService{
		client:       client,
		promptLoader: promptLoader,
	}
}

// GenerateNewChallenge はAIにチャレンジを生成させ、生テキストとヒントのペアを返します
func (s *aiChallengeService) GenerateNewChallenge(ctx context.Context, difficulty, topic, username string) (*models.GenerationResult, error) {
	prompt, err := s.promptLoader.LoadChallengeGenerationPrompt(difficulty, topic, username)
	if err != nil {
		return nil, fmt.Errorf("failed to build generation prompt: %w", err)
	}

	content, err := s.client.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("AI generation request failed: %w", err)
	}

	result := &models.GenerationResult{
		Raw:   content,
		Hints: extractHintLines(content),
	}

	fmt.Printf("✅ Challenge generated (raw length: %d, hints: %d)\n", len(result.Raw), len(result.Hints))

	return result, nil
}

// GetChallengeFeedback は提出された解答に対するフィードバックを取得します
func (s *aiChallengeService) GetChallengeFeedback(ctx context.Context, solutionText string, challenge *models.Challenge, username string) (string, error) {
	prompt, err := s.promptLoader.LoadSolutionFeedbackPrompt(
		challenge.Title,
		challenge.Difficulty,
		challenge.Description,
		solutionText,
		username,
	)
	if err != nil {
		return "", fmt.Errorf("failed to build feedback prompt: %w", err)
	}

	feedback, err := s.client.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("AI feedback request failed: %w", err)
	}

	return strings.TrimSpace(feedback), nil
}

// extractHintLines は生成テキストからHINT_n:行を抜き出してサイドチャネルに変換します
func extractHintLines(content string) map[string]string {
	hints := make(map[string]string)

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		for i := 1; i <= 3; i++ {
			marker := fmt.Sprintf("HINT_%d:", i)
			if strings.HasPrefix(trimmed, marker) {
				hints[fmt.Sprintf("hint_%d", i)] = strings.TrimSpace(strings.TrimPrefix(trimmed, marker))
			}
		}
	}

	return hints
}
