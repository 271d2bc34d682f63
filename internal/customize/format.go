package customize

import (
	"regexp"
	"strings"

	"github.com/mrz1836/customizer/internal/domain"
)

//nolint:gochecknoglobals // Compiled once
var (
	extraBlankLines = regexp.MustCompile(`\n{3,}`)
	bulletStart     = regexp.MustCompile(`(?m)^[•-]\s*`)
	sentenceBreak   = regexp.MustCompile(`([.!?])\s+([A-Z])`)
)

// FormatConversational reflows a chat reply for display: runs of blank lines
// collapse to one, list items become "•" bullets on their own lines, and
// each sentence starts a new paragraph.
func FormatConversational(text string) string {
	text = extraBlankLines.ReplaceAllString(text, "\n\n")
	text = bulletStart.ReplaceAllString(text, "\n• ")
	text = sentenceBreak.ReplaceAllString(text, "$1\n\n$2")
	return separateLists(strings.TrimSpace(text))
}

// separateLists puts a blank line between a bullet and following prose.
func separateLists(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		out = append(out, line)
		if !strings.HasPrefix(line, "• ") || i+1 >= len(lines) {
			continue
		}
		if next := lines[i+1]; strings.TrimSpace(next) != "" && !strings.HasPrefix(next, "•") {
			out = append(out, "")
		}
	}
	return strings.Join(out, "\n")
}

// RequirementsSummary joins the trimmed, non-empty user turns of history
// with blank lines.
func RequirementsSummary(history []domain.ChatMessage) string {
	parts := make([]string, 0, len(history))
	for _, m := range history {
		if m.Role != domain.RoleUser {
			continue
		}
		if c := strings.TrimSpace(m.Content); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "\n\n")
}
