package services

import (
	"strings"

	"github.com/codequest/back/internal/models"
)

// DefaultChallengeTitle is used when the generated text contains no TITLE: line.
const DefaultChallengeTitle = "AI Generated Challenge"

// defaultHints はヒントが欠けているスロットを埋める固定文言です
var defaultHints = [3]string{
	"Start by breaking down the problem into smaller parts. What's the first step you would take?",
	"Consider edge cases and how your solution handles different inputs. What assumptions are you making?",
	"Look at your algorithm's efficiency. Can you optimize it further? Remember to test your solution with various inputs.",
}

var hintKeys = [3]string{"hint_1", "hint_2", "hint_3"}

type parserSection int

const (
	sectionNone parserSection = iota
	sectionTitle
	sectionDescription
)

// ParseGeneratedChallenge converts the raw generation text plus the hint side
// channel into a well-formed draft. It never fails: missing or malformed
// markers fall back to the fixed defaults, and the result always carries a
// non-empty title and exactly 3 non-blank hints.
//
// Two historical quirks are kept on purpose and pinned by tests: when TITLE:
// appears more than once the last occurrence wins, and any content on the
// same line as the DESCRIPTION: marker is discarded.
func ParseGeneratedChallenge(raw string, hints map[string]string) models.ChallengeDraft {
	var title string
	var description strings.Builder
	section := sectionNone

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "TITLE:"):
			title = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
			section = sectionTitle
		case strings.HasPrefix(line, "DESCRIPTION:"):
			section = sectionDescription
		case section == sectionDescription && !strings.HasPrefix(line, "HINT"):
			description.WriteString(line)
			description.WriteString("\n")
		}
		// マーカー前の行やHINT行はここで読み捨てる
	}

	if title == "" {
		title = DefaultChallengeTitle
	}

	resolved := make([]string, len(hintKeys))
	for i, key := range hintKeys {
		resolved[i] = resolveHint(hints[key], defaultHints[i])
	}

	return models.ChallengeDraft{
		Title:       title,
		Description: strings.TrimSpace(description.String()),
		Hints:       resolved,
	}
}

// resolveHint はAIのヒントが空白のみ・未指定の場合にスロット固有のデフォルトを返します
func resolveHint(raw, fallback string) string {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return trimmed
	}
	return fallback
}
