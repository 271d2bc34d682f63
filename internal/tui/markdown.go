package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// MarkdownWrap is the word-wrap width of rendered replies.
const MarkdownWrap = 80

var (
	glamourRenderer     *glamour.TermRenderer //nolint:gochecknoglobals // cached renderer for performance
	glamourRendererOnce sync.Once             //nolint:gochecknoglobals // sync.Once for renderer initialization
)

// markdownRenderer returns a cached glamour renderer, or nil if one cannot
// be created.
func markdownRenderer() *glamour.TermRenderer {
	glamourRendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(MarkdownWrap),
		)
		if err == nil {
			glamourRenderer = r
		}
	})
	return glamourRenderer
}

// RenderMarkdown renders an assistant reply for the terminal. With colors
// disabled, or when rendering fails, the text is returned unchanged.
func RenderMarkdown(text string) string {
	if !HasColorSupport() {
		return text
	}
	r := markdownRenderer()
	if r == nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
