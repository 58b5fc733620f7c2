package picker

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/algoquest/internal/router"
	"github.com/abhisek/algoquest/internal/screen"
)

type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestEnterPushesSelected(t *testing.T) {
	opened := 0
	p := New("Things", []Item{
		{Title: "One", Open: func() screen.Screen { opened++; return &stubScreen{title: "one"} }},
		{Title: "Two", Open: func() screen.Screen { opened++; return &stubScreen{title: "two"} }},
	})

	p.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if p.Selected() != 1 {
		t.Fatalf("expected selection 1, got %d", p.Selected())
	}

	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "two" {
		t.Errorf("pushed %q, want two", msg.Screen.Title())
	}
	if opened != 1 {
		t.Errorf("expected one screen built, got %d", opened)
	}
}

func TestEmptyView(t *testing.T) {
	p := New("Empty", nil)
	if v := p.View(80, 20); v == "" {
		t.Error("expected a message for an empty list")
	}
}
