package utils

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// RenderMarkdown converts markdown text to HTML for the challenge detail view.
// Rendering failures fall back to the raw text so the response never breaks.
func RenderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return md
	}
	return buf.String()
}
