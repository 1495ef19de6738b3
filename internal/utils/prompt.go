package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PromptLoader プロンプトファイルを読み込むためのユーティリティ
type PromptLoader struct {
	baseDir string
}

// NewPromptLoader プロンプトローダーを初期化
func NewPromptLoader(baseDir string) *PromptLoader {
	return &PromptLoader{
		baseDir: baseDir,
	}
}

// LoadPrompt プロンプトファイルを読み込み、変数を置換して返す
func (p *PromptLoader) LoadPrompt(filename string, variables map[string]string) (string, error) {
	filePath := filepath.Join(p.baseDir, filename)

	// ファイルの存在確認
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return "", fmt.Errorf("prompt file not found: %s", filePath)
	}

	// ファイル読み込み
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %s: %w", filePath, err)
	}

	// 変数の置換
	prompt := string(content)
	for key, value := range variables {
		placeholder := "{" + key + "}"
		prompt = strings.ReplaceAll(prompt, placeholder, value)
	}

	return prompt, nil
}

// LoadChallengeGenerationPrompt チャレンジ生成プロンプトを読み込み
func (p *PromptLoader) LoadChallengeGenerationPrompt(difficulty, topic, username string) (string, error) {
	variables := map[string]string{
		"DIFFICULTY": difficulty,
		"TOPIC":      topic,
		"USERNAME":   username,
	}
	return p.LoadPrompt("challenge_generation.txt", variables)
}

// LoadSolutionFeedbackPrompt 解答フィードバックプロンプトを読み込み
func (p *PromptLoader) LoadSolutionFeedbackPrompt(title, difficulty, description, solution, username string) (string, error) {
	variables := map[string]string{
		"TITLE":       title,
		"DIFFICULTY":  difficulty,
		"DESCRIPTION": description,
		"SOLUTION":    solution,
		"USERNAME":    username,
	}
	return p.LoadPrompt("solution_feedback.txt", variables)
}
