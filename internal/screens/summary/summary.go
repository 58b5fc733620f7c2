// Package summary shows what a finished tutorial or challenge earned.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/algoquest/internal/achievements"
	"github.com/abhisek/algoquest/internal/router"
	"github.com/abhisek/algoquest/internal/screen"
	"github.com/abhisek/algoquest/internal/ui/layout"
	"github.com/abhisek/algoquest/internal/ui/theme"
)

// Result describes a finished activity.
type Result struct {
	Heading string
	Subject string
	Lines   []string
	Awards  []achievements.Award
	Err     error
}

// SummaryScreen displays a Result until dismissed.
type SummaryScreen struct {
	result Result
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(result Result) *SummaryScreen {
	return &SummaryScreen{result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.result
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), res.Heading))
	b.WriteString("\n")
	if res.Subject != "" {
		b.WriteString(layout.Centered(width, theme.Subtitle, res.Subject))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, line := range res.Lines {
		b.WriteString(layout.Centered(width, theme.Body, line))
		b.WriteString("\n")
	}

	if res.Err != nil {
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error),
			"Progress was not saved: "+res.Err.Error()))
		b.WriteString("\n")
	}

	if len(res.Awards) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, theme.Hint, "Achievements unlocked"))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		for _, a := range res.Awards {
			line := fmt.Sprintf("★ %s (%s)  +%d XP", a.Title, a.Rarity.DisplayName(), a.XPReward)
			b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.RarityColor(a.Rarity)).Bold(true), line))
			b.WriteString("\n")
			if a.Description != "" {
				b.WriteString(layout.Centered(width, theme.Hint, a.Description))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// XPLine formats earned XP for Result.Lines.
func XPLine(xp int) string {
	if xp <= 0 {
		return "No XP this time. Keep going!"
	}
	return fmt.Sprintf("+%d XP", xp)
}
