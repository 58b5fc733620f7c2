package tutorial

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdown renders tutorial pages, rebuilding the glamour renderer only
// when the wrap width changes.
type markdown struct {
	width    int
	renderer *glamour.TermRenderer
}

func (m *markdown) render(body string, width int) string {
	width = max(width, 20)
	if m.renderer == nil || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return body
		}
		m.renderer, m.width = r, width
	}
	out, err := m.renderer.Render(body)
	if err != nil {
		return body
	}
	return strings.Trim(out, "\n")
}
