package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/algoquest/internal/router"
	"github.com/abhisek/algoquest/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

func newTestWelcomeWithCounter() (*WelcomeScreen, *int) {
	callCount := 0
	factory := func() screen.Screen {
		callCount++
		return &stubScreen{}
	}
	return New(factory), &callCount
}

func sendTicks(w *WelcomeScreen, n int) tea.Cmd {
	var cmd tea.Cmd
	for i := 0; i < n; i++ {
		_, cmd = w.Update(tickMsg(time.Now()))
	}
	return cmd
}

func TestBannerAfterSort(t *testing.T) {
	w, _ := newTestWelcomeWithCounter()

	if strings.Contains(w.View(80, 24), "Watch algorithms think") {
		t.Error("banner should not be visible at start")
	}

	sendTicks(w, w.history.Len()-2)
	if w.sorted() {
		t.Error("sort should still be running one frame before the end")
	}

	sendTicks(w, 1)
	if !strings.Contains(w.View(80, 24), "Watch algorithms think") {
		t.Error("banner should be visible once sorted")
	}
}

func TestTicksKeepRunningUntilTransition(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()

	if cmd := sendTicks(w, w.history.Len()+20); cmd == nil {
		t.Error("ticks should keep the sparkle animation going")
	}
	if *callCount != 0 {
		t.Errorf("factory should not be called without keypress, got %d", *callCount)
	}
}

func TestKeypressDuringAnimationSkipsToTransition(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()
	sendTicks(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress during animation should trigger transition")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if msg.Screen == nil {
		t.Error("replace screen should not be nil")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called once, got %d", *callCount)
	}
}

func TestFactoryCalledOnce(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()

	w.Update(tea.KeyPressMsg{Code: 'a'})
	_, cmd := w.Update(tea.KeyPressMsg{Code: 'b'})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called exactly once, got %d", *callCount)
	}
	if _, cmd := w.Update(tickMsg(time.Now())); cmd != nil {
		t.Error("ticks stop after the transition")
	}
}

func TestTitleEmpty(t *testing.T) {
	w, _ := newTestWelcomeWithCounter()
	if w.Title() != "" {
		t.Errorf("expected empty title, got %q", w.Title())
	}
}

func TestRenderBannerCompact(t *testing.T) {
	if got := RenderBanner(BannerWidth - 1); !strings.Contains(got, "A · L · G") {
		t.Errorf("narrow banner = %q", got)
	}
}
