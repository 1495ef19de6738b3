package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

type claudeClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type ClaudeRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ClaudeResponse struct {
	Content []ContentBlock `json:"content"`
	Usage   Usage          `json:"usage"`
}

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func NewClaudeClient(model string) AIClient {
	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		fmt.Printf("⚠️ CLAUDE_API_KEY not found in environment variables\n")
	}

	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}

	return &claudeClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.anthropic.com/v1/messages",
		client:  &http.Client{},
	}
}

func (c *claudeClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", NewInvalidAPIKeyError("Claude API key not configured")
	}

	fmt.Printf("🤖 Using Claude API with model: %s\n", c.model)

	request := ClaudeRequest{
		Model:     c.model,
		MaxTokens: 2000,
		Messages: []Message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// より詳細なエラー情報を提供
		var errorData map[string]interface{}
		if err := json.Unmarshal(body, &errorData); err == nil {
			if errorObj, exists := errorData["error"]; exists {
				if errorMap, ok := errorObj.(map[string]interface{}); ok {
					errorType := ""
					errorMessage := ""
					if t, exists := errorMap["type"]; exists {
						if typeStr, ok := t.(string); ok {
							errorType = typeStr
						}
					}
					if m, exists := errorMap["message"]; exists {
						if msgStr, ok := m.(string); ok {
							errorMessage = msgStr
						}
					}

					switch errorType {
					case "invalid_request_error":
						if strings.Contains(errorMessage, "maximum context length") || strings.Contains(errorMessage, "too many tokens") {
							return "", NewTokenLimitError(errorMessage)
						}
						return "", NewGeneralError(fmt.Sprintf("Claude API request error: %s", errorMessage))
					case "authentication_error", "permission_error":
						return "", NewInvalidAPIKeyError(errorMessage)
					case "rate_limit_error":
						return "", NewRateLimitError(errorMessage)
					case "api_error", "overloaded_error":
						return "", NewGeneralError(fmt.Sprintf("Claude API server error: %s", errorMessage))
					default:
						return "", NewGeneralError(fmt.Sprintf("Claude API error (%s): %s", errorType, errorMessage))
					}
				}
			}
		}
		return "", NewGeneralError(fmt.Sprintf("Claude API error (status %d): %s", resp.StatusCode, string(body)))
	}

	var claudeResp ClaudeResponse
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(claudeResp.Content) == 0 {
		return "", fmt.Errorf("no content returned from Claude API")
	}

	content := claudeResp.Content[0].Text
	fmt.Printf("✅ Claude API response received (length: %d)\n", len(content))

	return content, nil
}
