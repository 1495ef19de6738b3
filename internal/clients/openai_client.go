package clients

import (
	"context"
	"fmt"
	"os"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openAIClient struct {
	apiKey string
	model  string
	opts   []option.RequestOption
}

func NewOpenAIClient(model string) AIClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Printf("⚠️ OPENAI_API_KEY not found in environment variables\n")
	}

	if model == "" {
		model = "gpt-4o"
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &openAIClient{
		apiKey: apiKey,
		model:  model,
		opts:   opts,
	}
}

func (c *openAIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", NewInvalidAPIKeyError("OpenAI API key not configured")
	}

	fmt.Printf("🤖 Using OpenAI API with model: %s\n", c.model)

	client := openai.NewClient(c.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", NewGeneralError(fmt.Sprintf("OpenAI API error: %v", err))
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no content returned from OpenAI API")
	}

	content := resp.Choices[0].Message.Content
	fmt.Printf("✅ OpenAI API response received (length: %d)\n", len(content))

	return content, nil
}
