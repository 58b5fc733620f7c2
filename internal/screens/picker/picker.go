// Package picker is a generic list screen that opens the chosen item.
package picker

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/algoquest/internal/router"
	"github.com/abhisek/algoquest/internal/screen"
	"github.com/abhisek/algoquest/internal/ui/components"
	"github.com/abhisek/algoquest/internal/ui/layout"
	"github.com/abhisek/algoquest/internal/ui/theme"
)

// Item is one selectable entry. Open builds the screen to push.
type Item struct {
	Title       string
	Description string
	Open        func() screen.Screen
}

// PickerScreen lists items and pushes the selected one on Enter.
type PickerScreen struct {
	title string
	items []Item
	menu  components.Menu
}

var _ screen.Screen = (*PickerScreen)(nil)
var _ screen.KeyHintProvider = (*PickerScreen)(nil)

// New creates a PickerScreen.
func New(title string, items []Item) *PickerScreen {
	p := &PickerScreen{title: title, items: items}
	menuItems := make([]components.MenuItem, len(items))
	for i, it := range items {
		menuItems[i] = components.MenuItem{
			Label:       it.Title,
			Description: it.Description,
			Action: func() tea.Cmd {
				s := it.Open()
				return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
			},
		}
	}
	p.menu = components.NewMenu(menuItems)
	return p
}

func (p *PickerScreen) Init() tea.Cmd {
	return nil
}

func (p *PickerScreen) Title() string {
	return p.title
}

func (p *PickerScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

func (p *PickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	p.menu, cmd = p.menu.Update(msg)
	return p, cmd
}

func (p *PickerScreen) View(width, height int) string {
	if len(p.items) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\nNothing here yet.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Subtitle, fmt.Sprintf("%d to choose from", len(p.items))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, p.menu.View()))
	return b.String()
}

// Selected returns the highlighted item index.
func (p *PickerScreen) Selected() int {
	return p.menu.Selected
}
