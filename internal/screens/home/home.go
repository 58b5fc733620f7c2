package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/algoquest/internal/learner"
	"github.com/abhisek/algoquest/internal/router"
	"github.com/abhisek/algoquest/internal/screen"
	"github.com/abhisek/algoquest/internal/screens/achievementlist"
	"github.com/abhisek/algoquest/internal/screens/challenges"
	"github.com/abhisek/algoquest/internal/screens/history"
	"github.com/abhisek/algoquest/internal/screens/picker"
	"github.com/abhisek/algoquest/internal/screens/structures"
	"github.com/abhisek/algoquest/internal/screens/tutorial"
	"github.com/abhisek/algoquest/internal/screens/visualize"
	"github.com/abhisek/algoquest/internal/steps"
	"github.com/abhisek/algoquest/internal/store"
	"github.com/abhisek/algoquest/internal/ui/components"
	"github.com/abhisek/algoquest/internal/ui/layout"
)

type stats struct {
	level, xp, streak int
	unlocked, total   int
	recentUnlock      bool
}

type statsLoadedMsg struct {
	stats stats
	err   error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps       screen.Deps
	menu       components.Menu
	menuLabels []string
	stats      stats
	now        func() time.Time
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Focuser = (*HomeScreen)(nil)

// New creates a HomeScreen.
func New(deps screen.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps, now: time.Now}

	items := []components.MenuItem{
		{Label: "VISUALIZE", Action: h.push(func() screen.Screen { return AlgorithmPicker(deps) })},
		{Label: "TUTORIALS", Action: h.push(func() screen.Screen { return TutorialPicker(deps) })},
		{Label: "CHALLENGES", Action: h.push(func() screen.Screen { return ChallengePicker(deps) })},
		{Label: "STACK & QUEUE", Action: h.push(func() screen.Screen { return structures.New(deps.Learner) })},
		{Label: "ACHIEVEMENTS", Action: h.push(func() screen.Screen { return achievementlist.New(deps.Learner) }), Disabled: deps.Learner == nil},
		{Label: "HISTORY", Action: h.push(func() screen.Screen { return history.New(deps.Learner) }), Disabled: deps.Learner == nil},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	}
	for _, it := range items {
		h.menuLabels = append(h.menuLabels, it.Label)
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) push(factory func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		s := factory()
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

// Focus reloads stats when returning from another screen.
func (h *HomeScreen) Focus() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	l := h.deps.Learner
	if l == nil {
		return nil
	}
	now := h.now()
	return func() tea.Msg {
		ctx := context.Background()
		p, err := l.Progress(ctx)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		statuses, err := l.Statuses(ctx)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		st := stats{
			level:  learner.Level(p.XP),
			xp:     p.XP,
			streak: p.StreakDays,
			total:  len(statuses),
		}
		for _, s := range statuses {
			if s.Unlocked {
				st.unlocked++
			}
		}
		st.recentUnlock = unlockedSince(ctx, l, now.Add(-24*time.Hour))
		return statsLoadedMsg{stats: st}
	}
}

// unlockedSince reports whether a recent achievement event is newer than
// since.
func unlockedSince(ctx context.Context, l *learner.Service, since time.Time) bool {
	events, err := l.History(ctx, 20)
	if err != nil {
		return false
	}
	for _, ev := range events {
		if ev.Kind == store.ActivityAchievement && ev.Timestamp.After(since) {
			return true
		}
	}
	return false
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.err == nil {
			h.stats = msg.stats
		}
		return h, nil
	case screen.ActivityRecordedMsg:
		return h, h.loadStats()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+8) || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, RenderMascot(h.mascot()))
	}
	if h.deps.Learner != nil {
		sections = append(sections, renderStatsBar(h.stats, cw, compact))
	}
	sections = append(sections, renderArcadeMenu(h.menuLabels, h.menu.Selected, cw, compact))
	if !compact && !h.deps.TutorEnabled() {
		sections = append(sections, renderTutorNote(cw))
	}

	sep := "\n\n"
	if compact {
		sep = "\n"
	}
	return components.CabinetFrame(strings.Join(sections, sep), width, height)
}

func (h *HomeScreen) mascot() MascotVariant {
	switch {
	case h.stats.recentUnlock:
		return MascotCelebrating
	case h.deps.Learner != nil && h.stats.streak == 0:
		return MascotSleepy
	}
	return MascotIdle
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// AlgorithmPicker lists every registered algorithm.
func AlgorithmPicker(deps screen.Deps) screen.Screen {
	var items []picker.Item
	for _, alg := range steps.All() {
		items = append(items, picker.Item{
			Title:       alg.Title,
			Description: string(alg.Kind),
			Open: func() screen.Screen {
				return visualize.New(alg, visualize.Options{Deps: deps})
			},
		})
	}
	return picker.New("Algorithms", items)
}

// TutorialPicker lists the catalog's tutorials.
func TutorialPicker(deps screen.Deps) screen.Screen {
	var items []picker.Item
	if deps.Catalog != nil {
		for _, t := range deps.Catalog.Tutorials {
			items = append(items, picker.Item{
				Title:       t.Title,
				Description: t.Summary,
				Open:        func() screen.Screen { return tutorial.New(t, deps) },
			})
		}
	}
	return picker.New("Tutorials", items)
}

// ChallengePicker lists the catalog's coding challenges.
func ChallengePicker(deps screen.Deps) screen.Screen {
	var items []picker.Item
	if deps.Catalog != nil {
		for _, ch := range deps.Catalog.Challenges {
			items = append(items, picker.Item{
				Title:       ch.Title,
				Description: ch.Difficulty,
				Open:        func() screen.Screen { return challenges.New(ch, deps) },
			})
		}
	}
	return picker.New("Challenges", items)
}
