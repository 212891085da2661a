package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer formats assistant text for output.
type Renderer func(text string) string

// PlainRenderer leaves text unchanged.
func PlainRenderer(text string) string {
	return text
}

// MarkdownRenderer renders markdown for a terminal of the given width and
// falls back to plain text when glamour fails.
func MarkdownRenderer(width int) Renderer {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return PlainRenderer
	}
	return func(text string) string {
		out, err := renderer.Render(text)
		if err != nil {
			return text
		}
		return strings.Trim(out, "\n")
	}
}
