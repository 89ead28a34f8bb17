package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips any markup from AI-produced text before it reaches the
// presentation layer. The backend's grading pipeline echoes model output
// verbatim, so feedback and summaries are treated as untrusted.
func SanitizeText(s string) string {
	cleaned := strictPolicy.Sanitize(strings.TrimSpace(s))
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// SanitizeAll applies SanitizeText to every element, preserving order.
func SanitizeAll(items []string) []string {
	if len(items) == 0 {
		return items
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = SanitizeText(item)
	}
	return out
}
