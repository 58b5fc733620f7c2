package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/algoquest/internal/achievements"
	"github.com/abhisek/algoquest/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// InputCapturer is implemented by screens that sometimes need Esc and
// printable keys for themselves, e.g. while a text field is open.
type InputCapturer interface {
	CapturingInput() bool
}

// Closer is implemented by screens holding timers or goroutines. The
// router calls Close when the screen leaves the stack.
type Closer interface {
	Close()
}

// Focuser is implemented by screens that refresh when a screen above
// them is popped.
type Focuser interface {
	Focus() tea.Cmd
}

// ActivityRecordedMsg tells the app that learner progress changed. Awards
// lists achievements the activity unlocked.
type ActivityRecordedMsg struct {
	Awards []achievements.Award
}

// Recorded wraps awards in a command emitting ActivityRecordedMsg.
func Recorded(awards []achievements.Award) tea.Cmd {
	return func() tea.Msg { return ActivityRecordedMsg{Awards: awards} }
}
