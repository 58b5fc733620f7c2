// Package app is the root bubbletea model: a screen router framed by the
// header and footer.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/algoquest/internal/achievements"
	"github.com/abhisek/algoquest/internal/learner"
	"github.com/abhisek/algoquest/internal/logging"
	"github.com/abhisek/algoquest/internal/router"
	"github.com/abhisek/algoquest/internal/screen"
	"github.com/abhisek/algoquest/internal/screens/home"
	"github.com/abhisek/algoquest/internal/screens/welcome"
	"github.com/abhisek/algoquest/internal/ui/layout"
)

const noticeDuration = 4 * time.Second

// Options configures the root model.
type Options struct {
	Deps       screen.Deps
	Logger     *slog.Logger
	SkipSplash bool

	// Start, when set, opens on top of the home screen instead of the
	// splash.
	Start func(screen.Deps) screen.Screen
}

type statsLoadedMsg struct {
	stats layout.Stats
	err   error
}

type noticeExpiredMsg struct{ seq int }

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	deps   screen.Deps
	logger *slog.Logger
	width  int
	height int

	stats     layout.Stats
	notice    string
	noticeSeq int
}

// NewModel creates the root model, starting on the splash screen unless
// opts.SkipSplash or opts.Start is set.
func NewModel(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	deps := opts.Deps
	homeFactory := func() screen.Screen { return home.New(deps) }

	var r *router.Router
	switch {
	case opts.Start != nil:
		r = router.New(homeFactory())
		r.Push(opts.Start(deps))
	case opts.SkipSplash:
		r = router.New(homeFactory())
	default:
		r = router.New(welcome.New(homeFactory))
	}
	return AppModel{
		router: r,
		deps:   deps,
		logger: logger,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.loadStats(), m.router.Active().Init())
}

func (m AppModel) loadStats() tea.Cmd {
	l := m.deps.Learner
	if l == nil {
		return nil
	}
	return func() tea.Msg {
		p, err := l.Progress(context.Background())
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		return statsLoadedMsg{stats: layout.Stats{
			Level:  learner.Level(p.XP),
			XP:     p.XP,
			Streak: p.StreakDays,
		}}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statsLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("load learner stats", "error", msg.err)
			return m, nil
		}
		m.stats = msg.stats
		return m, nil

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case screen.ActivityRecordedMsg:
		cmds := []tea.Cmd{m.loadStats(), m.router.Update(msg)}
		if len(msg.Awards) > 0 {
			for _, a := range msg.Awards {
				m.logger.Info("achievement unlocked", "id", a.ID, "xp", a.XPReward)
			}
			m.notice = AwardNotice(msg.Awards)
			m.noticeSeq++
			seq := m.noticeSeq
			cmds = append(cmds, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
				return noticeExpiredMsg{seq: seq}
			}))
		}
		return m, tea.Batch(cmds...)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.Close()
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.InputCapturer); ok && c.CapturingInput() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// AwardNotice summarizes unlocked achievements for the footer.
func AwardNotice(awards []achievements.Award) string {
	names := make([]string, len(awards))
	xp := 0
	for i, a := range awards {
		names[i] = a.Title
		xp += a.XPReward
	}
	return fmt.Sprintf("★ Achievement unlocked: %s (+%d XP)", strings.Join(names, ", "), xp)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the framed active screen at the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.stats, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.notice, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	} else {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the Bubble Tea program on the local terminal.
func Run(opts Options, progOpts ...tea.ProgramOption) error {
	m := NewModel(opts)
	_, err := tea.NewProgram(m, progOpts...).Run()
	m.router.Close()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
