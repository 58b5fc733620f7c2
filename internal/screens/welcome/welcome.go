package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/algoquest/internal/router"
	"github.com/abhisek/algoquest/internal/screen"
	"github.com/abhisek/algoquest/internal/steps"
	"github.com/abhisek/algoquest/internal/ui/components"
	"github.com/abhisek/algoquest/internal/ui/theme"
)

const (
	tickInterval = 60 * time.Millisecond
	chartWidth   = 36
	chartHeight  = 8
)

var splashData = []int{6, 2, 9, 4, 7, 1, 8, 3, 5}

// sparkle frames cycle around the banner
var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

// WelcomeScreen plays a short bubble sort, then shows the banner until a
// key is pressed. Any key skips ahead.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	history      *steps.History
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
		history:     steps.BubbleSort(splashData),
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// sorted reports whether the animation reached its final frame.
func (w *WelcomeScreen) sorted() bool {
	return w.tickCount >= w.history.Len()-1
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	frame := w.history.Frame(min(w.tickCount, w.history.Len()-1))
	sections := []string{components.Bars(frame, chartWidth, chartHeight)}

	if w.sorted() {
		banner := RenderBanner(width)
		sparkle := sparkleFrames[w.tickCount/8%len(sparkleFrames)]
		accent := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)
		lines := strings.Split(banner, "\n")
		lines[0] = accent + "  " + lines[0] + "  " + accent

		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Watch algorithms think.")
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue")

		sections = append(sections, "", strings.Join(lines, "\n"), "", tagline, "", hint)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
