// Package achievementlist shows every achievement with the learner's
// progress toward it, one rarity tab at a time.
package achievementlist

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/algoquest/internal/achievements"
	"github.com/abhisek/algoquest/internal/learner"
	"github.com/abhisek/algoquest/internal/screen"
	"github.com/abhisek/algoquest/internal/ui/components"
	"github.com/abhisek/algoquest/internal/ui/layout"
	"github.com/abhisek/algoquest/internal/ui/theme"
)

type statusesLoadedMsg struct {
	Statuses []achievements.Status
	Err      error
}

// AchievementListScreen lists achievement statuses grouped by rarity.
// Tab 0 shows all of them.
type AchievementListScreen struct {
	learner      *learner.Service
	statuses     []achievements.Status
	tab          int
	scrollOffset int
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*AchievementListScreen)(nil)
var _ screen.KeyHintProvider = (*AchievementListScreen)(nil)

// New creates a new AchievementListScreen.
func New(l *learner.Service) *AchievementListScreen {
	return &AchievementListScreen{learner: l}
}

func (s *AchievementListScreen) Init() tea.Cmd {
	l := s.learner
	return func() tea.Msg {
		statuses, err := l.Statuses(context.Background())
		return statusesLoadedMsg{Statuses: statuses, Err: err}
	}
}

func (s *AchievementListScreen) Title() string {
	return "Achievements"
}

func (s *AchievementListScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Rarity"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func tabs() []string {
	out := []string{"All"}
	for _, r := range achievements.AllRarities() {
		out = append(out, r.DisplayName())
	}
	return out
}

func (s *AchievementListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statusesLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.statuses = msg.Statuses
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		n := len(tabs())
		switch msg.String() {
		case "tab", "right", "l":
			s.tab = (s.tab + 1) % n
			s.scrollOffset = 0
		case "shift+tab", "left", "h":
			s.tab = (s.tab - 1 + n) % n
			s.scrollOffset = 0
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			if s.scrollOffset < len(s.filtered())-1 {
				s.scrollOffset++
			}
		}
	}
	return s, nil
}

// filtered returns the statuses on the current tab.
func (s *AchievementListScreen) filtered() []achievements.Status {
	if s.tab == 0 {
		return s.statuses
	}
	rarity := achievements.AllRarities()[s.tab-1]
	var out []achievements.Status
	for _, st := range s.statuses {
		if st.Rarity == rarity {
			out = append(out, st)
		}
	}
	return out
}

func (s *AchievementListScreen) unlockedCount() int {
	n := 0
	for _, st := range s.statuses {
		if st.Unlocked {
			n++
		}
	}
	return n
}

func (s *AchievementListScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error), "\n\nError: "+s.errMsg)
	}
	if !s.loaded {
		return layout.Centered(width, theme.Hint, "\n\n  Loading achievements...")
	}

	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Body,
		fmt.Sprintf("Unlocked %d of %d", s.unlockedCount(), len(s.statuses))))
	b.WriteString("\n\n")

	var labels []string
	for i, t := range tabs() {
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if i == s.tab {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		labels = append(labels, style.Render(t))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(labels, "   ")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))))
	b.WriteString("\n\n")

	list := s.filtered()
	if len(list) == 0 {
		b.WriteString(layout.Centered(width, theme.Hint.Italic(true), "Nothing in this tier yet"))
		return b.String()
	}

	// Each entry takes three lines.
	maxVisible := max((height-10)/3, 1)
	end := min(s.scrollOffset+maxVisible, len(list))
	for _, st := range list[s.scrollOffset:end] {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderStatus(st, cw)))
		b.WriteString("\n")
	}
	if end < len(list) {
		b.WriteString(layout.Centered(width, theme.Hint, fmt.Sprintf("... %d more", len(list)-end)))
	}
	return b.String()
}

func renderStatus(st achievements.Status, cw int) string {
	mark, titleStyle := "○", lipgloss.NewStyle().Foreground(theme.TextDim)
	if st.Unlocked {
		mark, titleStyle = "★", lipgloss.NewStyle().Foreground(theme.RarityColor(st.Rarity)).Bold(true)
	}

	head := fmt.Sprintf("%s %s", mark, st.Title)
	reward := fmt.Sprintf("%s · +%d XP", st.Rarity.DisplayName(), st.XPReward)
	gap := max(cw-lipgloss.Width(head)-lipgloss.Width(reward), 1)
	line := titleStyle.Render(head) + strings.Repeat(" ", gap) + theme.Hint.Render(reward)

	bar := components.NewProgressBar("", st.Progress, st.MaxProgress, cw-2)
	if st.Unlocked {
		bar.Fill = theme.RarityColor(st.Rarity)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		line,
		"  "+theme.Hint.Render(st.Description),
		"  "+bar.View(),
	)
}
