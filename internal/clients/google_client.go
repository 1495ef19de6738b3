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

type googleClient struct {
	apiKey string
	model  string
	client *http.Client
}

type GoogleRequest struct {
	Contents         []GoogleContent        `json:"contents"`
	GenerationConfig GoogleGenerationConfig `json:"generationConfig"`
}

type GoogleContent struct {
	Parts []GooglePart `json:"parts"`
}

type GooglePart struct {
	Text string `json:"text"`
}

type GoogleGenerationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens"`
}

type GoogleResponse struct {
	Candidates []GoogleCandidate `json:"candidates"`
	Error      *GoogleError      `json:"error,omitempty"`
}

type GoogleCandidate struct {
	Content      GoogleContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type GoogleError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func NewGoogleClient(model string) AIClient {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		fmt.Printf("⚠️ GOOGLE_API_KEY not found in environment variables\n")
	}

	if model == "" {
		model = "gemini-1.5-flash"
	}

	// models/プレフィックスがない場合は自動的に追加
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}

	return &googleClient{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{},
	}
}

func (c *googleClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", NewInvalidAPIKeyError("Google API key not configured")
	}

	fmt.Printf("🤖 Using Google API with model: %s\n", c.model)

	request := GoogleRequest{
		Contents: []GoogleContent{
			{
				Parts: []GooglePart{
					{
						Text: prompt,
					},
				},
			},
		},
		GenerationConfig: GoogleGenerationConfig{
			MaxOutputTokens: 4000,
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/%s:generateContent?key=%s", c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var googleResp GoogleResponse
	if err := json.Unmarshal(body, &googleResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if googleResp.Error != nil {
		switch googleResp.Error.Status {
		case "RESOURCE_EXHAUSTED":
			return "", NewQuotaExceededError(googleResp.Error.Message)
		case "NOT_FOUND":
			return "", NewModelNotFoundError(googleResp.Error.Message)
		case "PERMISSION_DENIED", "UNAUTHENTICATED":
			return "", NewInvalidAPIKeyError(googleResp.Error.Message)
		default:
			return "", NewGeneralError(fmt.Sprintf("Google API error (%s): %s", googleResp.Error.Status, googleResp.Error.Message))
		}
	}

	if resp.StatusCode != http.StatusOK {
		return "", NewGeneralError(fmt.Sprintf("Google API error (status %d): %s", resp.StatusCode, string(body)))
	}

	if len(googleResp.Candidates) == 0 || len(googleResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Google API")
	}

	content := googleResp.Candidates[0].Content.Parts[0].Text
	fmt.Printf("✅ Google API response received (length: %d)\n", len(content))

	return content, nil
}
