// Package tutorial pages through a markdown tutorial and records its
// completion.
package tutorial

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/algoquest/internal/achievements"
	"github.com/abhisek/algoquest/internal/content"
	"github.com/abhisek/algoquest/internal/router"
	"github.com/abhisek/algoquest/internal/screen"
	"github.com/abhisek/algoquest/internal/screens/summary"
	"github.com/abhisek/algoquest/internal/screens/visualize"
	"github.com/abhisek/algoquest/internal/steps"
	"github.com/abhisek/algoquest/internal/ui/components"
	"github.com/abhisek/algoquest/internal/ui/layout"
	"github.com/abhisek/algoquest/internal/ui/theme"
)

type finishedMsg struct {
	Awards []achievements.Award
	Err    error
}

// TutorialScreen shows one tutorial step at a time.
type TutorialScreen struct {
	tut  content.Tutorial
	deps screen.Deps
	page int
	md   markdown

	finishing bool
}

var _ screen.Screen = (*TutorialScreen)(nil)
var _ screen.KeyHintProvider = (*TutorialScreen)(nil)

// New creates a TutorialScreen for t.
func New(t content.Tutorial, deps screen.Deps) *TutorialScreen {
	return &TutorialScreen{tut: t, deps: deps}
}

func (s *TutorialScreen) Init() tea.Cmd {
	return nil
}

func (s *TutorialScreen) Title() string {
	return s.tut.Title
}

func (s *TutorialScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "←→", Description: "Page"},
	}
	if s.last() {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Finish"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next"})
	}
	if s.algorithm() != nil {
		hints = append(hints, layout.KeyHint{Key: "V", Description: "Visualize"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// Page returns the zero-based page index.
func (s *TutorialScreen) Page() int {
	return s.page
}

func (s *TutorialScreen) last() bool {
	return s.page >= len(s.tut.Steps)-1
}

func (s *TutorialScreen) algorithm() *steps.Algorithm {
	if s.tut.Algorithm == "" {
		return nil
	}
	alg, err := steps.Lookup(s.tut.Algorithm)
	if err != nil {
		return nil
	}
	return &alg
}

func (s *TutorialScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case finishedMsg:
		res := summary.Result{
			Heading: "Tutorial complete!",
			Subject: s.tut.Title,
			Lines:   []string{fmt.Sprintf("Worth %d XP the first time through.", s.tut.XPReward)},
			Awards:  msg.Awards,
			Err:     msg.Err,
		}
		next := func() tea.Msg { return router.ReplaceScreenMsg{Screen: summary.New(res)} }
		if msg.Err != nil {
			return s, next
		}
		return s, tea.Batch(screen.Recorded(msg.Awards), next)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "right", "l", "n":
			if !s.last() {
				s.page++
			}
		case "left", "h", "p":
			if s.page > 0 {
				s.page--
			}
		case "enter":
			if !s.last() {
				s.page++
				return s, nil
			}
			return s, s.finish()
		case "v":
			if alg := s.algorithm(); alg != nil {
				v := visualize.New(*alg, visualize.Options{Deps: s.deps})
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: v} }
			}
		}
	}
	return s, nil
}

func (s *TutorialScreen) finish() tea.Cmd {
	if s.finishing {
		return nil
	}
	s.finishing = true
	if s.deps.Learner == nil {
		return func() tea.Msg { return finishedMsg{} }
	}
	l, tut := s.deps.Learner, s.tut
	return func() tea.Msg {
		awards, err := l.RecordTutorial(context.Background(), tut)
		return finishedMsg{Awards: awards, Err: err}
	}
}

func (s *TutorialScreen) View(width, height int) string {
	if len(s.tut.Steps) == 0 {
		return layout.Centered(width, theme.Hint, "\n\nThis tutorial has no pages.")
	}
	cw := components.ContentWidth(width)
	step := s.tut.Steps[s.page]

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Hint, fmt.Sprintf("Page %d of %d", s.page+1, len(s.tut.Steps))))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), step.Title))
	b.WriteString("\n\n")

	body := s.md.render(step.Body, cw)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(cw).Render(body)))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("", s.page+1, len(s.tut.Steps), min(cw, 40))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	return b.String()
}
