// Package history lists recent learner activity grouped by day.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/algoquest/internal/learner"
	"github.com/abhisek/algoquest/internal/screen"
	"github.com/abhisek/algoquest/internal/store"
	"github.com/abhisek/algoquest/internal/ui/layout"
	"github.com/abhisek/algoquest/internal/ui/theme"
)

const historyLimit = 200

type historyLoadedMsg struct {
	Events []store.ActivityEventRecord
	Err    error
}

// Day is one calendar day of activity, newest event first.
type Day struct {
	Date   time.Time
	Events []store.ActivityEventRecord
	XP     int
}

// HistoryScreen displays past activity one day per row.
type HistoryScreen struct {
	learner  *learner.Service
	days     []Day
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(l *learner.Service) *HistoryScreen {
	return &HistoryScreen{
		learner:  l,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	l := s.learner
	return func() tea.Msg {
		events, err := l.History(context.Background(), historyLimit)
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.days = GroupByDay(msg.Events)
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.days)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

// GroupByDay buckets newest-first events into local calendar days.
func GroupByDay(events []store.ActivityEventRecord) []Day {
	var days []Day
	for _, ev := range events {
		y, m, d := ev.Timestamp.Date()
		date := time.Date(y, m, d, 0, 0, 0, 0, ev.Timestamp.Location())
		if n := len(days); n == 0 || !days[n-1].Date.Equal(date) {
			days = append(days, Day{Date: date})
		}
		day := &days[len(days)-1]
		day.Events = append(day.Events, ev)
		day.XP += ev.XP
	}
	return days
}

// Describe renders one event as a short sentence.
func Describe(ev store.ActivityEventRecord) string {
	switch ev.Kind {
	case store.ActivityVisualization:
		return "Watched " + ev.Subject
	case store.ActivityTutorial:
		if ev.Detail == store.DetailRepeat {
			return "Reviewed tutorial " + ev.Subject
		}
		return "Finished tutorial " + ev.Subject
	case store.ActivityChallenge:
		if ev.Detail == store.DetailFailed {
			return "Attempted challenge " + ev.Subject
		}
		return "Solved challenge " + ev.Subject
	case store.ActivityStackOp:
		return "Stack " + ev.Detail
	case store.ActivityQueueOp:
		return "Queue " + ev.Detail
	case store.ActivityAchievement:
		return "Unlocked " + ev.Subject
	default:
		return ev.Kind + " " + ev.Subject
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error), "\n\nError: "+s.errMsg)
	}
	if !s.loaded {
		return layout.Centered(width, theme.Hint, "\n\n  Loading history...")
	}
	if len(s.days) == 0 {
		return layout.Centered(width, theme.Hint.Italic(true), "\n\n  No activity yet. Go visualize something!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, day := range s.days {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}

		noun := "activities"
		if len(day.Events) == 1 {
			noun = "activity"
		}
		line := fmt.Sprintf("%s%s  %3d %-10s  +%d XP",
			prefix, day.Date.Format("Mon Jan 02, 2006"), len(day.Events), noun, day.XP)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if !s.expanded[i] {
			continue
		}
		for _, ev := range day.Events {
			evStyle := theme.Hint
			if ev.Kind == store.ActivityAchievement {
				evStyle = lipgloss.NewStyle().Foreground(theme.ArcadeYellow)
			}
			xp := ""
			if ev.XP > 0 {
				xp = fmt.Sprintf("  +%d", ev.XP)
			}
			evLine := fmt.Sprintf("    %s  %-36s%s", ev.Timestamp.Format("15:04"), Describe(ev), xp)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, evStyle.Render(evLine)))
			b.WriteString("\n")
		}
	}
	return b.String()
}
