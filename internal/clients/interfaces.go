package clients

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// AIClient defines the interface for AI text generation backends
type AIClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// NewAIClientFromEnv はAI_PROVIDER/AI_MODELの設定に基づいてクライアントを生成します
func NewAIClientFromEnv() AIClient {
	provider := strings.ToLower(os.Getenv("AI_PROVIDER"))
	model := os.Getenv("AI_MODEL")

	switch provider {
	case "claude", "anthropic":
		return NewClaudeClient(model)
	case "google", "gemini":
		return NewGoogleClient(model)
	case "", "openai", "chatgpt":
		return NewOpenAIClient(model)
	default:
		fmt.Printf("⚠️ Unsupported AI_PROVIDER %q, falling back to openai\n", provider)
		return NewOpenAIClient(model)
	}
}
