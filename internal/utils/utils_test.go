package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "secret123" {
		t.Error("hash must not equal the plain password")
	}

	if !VerifyPassword("secret123", hash) {
		t.Error("expected correct password to verify")
	}
	if VerifyPassword("wrong", hash) {
		t.Error("expected wrong password to fail")
	}
}

func TestRenderMarkdown(t *testing.T) {
	html := RenderMarkdown("# Title\n\nSome **bold** text.")

	if !strings.Contains(html, "<h1>Title</h1>") {
		t.Errorf("expected heading in output, got %q", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("expected bold text in output, got %q", html)
	}
}

func TestPromptLoaderSubstitution(t *testing.T) {
	dir := t.TempDir()
	content := "Hello {USERNAME}, try a {DIFFICULTY} one. {UNKNOWN} stays."
	if err := os.WriteFile(filepath.Join(dir, "greeting.txt"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write prompt: %v", err)
	}

	loader := NewPromptLoader(dir)
	prompt, err := loader.LoadPrompt("greeting.txt", map[string]string{
		"USERNAME":   "demo",
		"DIFFICULTY": "beginner",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if prompt != "Hello demo, try a beginner one. {UNKNOWN} stays." {
		t.Errorf("unexpected substitution result: %q", prompt)
	}
}

func TestPromptLoaderMissingFile(t *testing.T) {
	loader := NewPromptLoader(t.TempDir())

	if _, err := loader.LoadPrompt("nope.txt", nil); err == nil {
		t.Fatal("expected error for missing prompt file")
	}
}
