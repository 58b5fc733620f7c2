// Package challenges is the Lua coding challenge screen: an editor seeded
// with the starter code, a runner over the fixed cases, and tutor hints.
package challenges

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/algoquest/internal/achievements"
	"github.com/abhisek/algoquest/internal/challenge"
	"github.com/abhisek/algoquest/internal/content"
	"github.com/abhisek/algoquest/internal/screen"
	"github.com/abhisek/algoquest/internal/tutor"
	"github.com/abhisek/algoquest/internal/ui/layout"
)

const (
	runTimeout = 10 * time.Second
	hintPoll   = 150 * time.Millisecond
)

type ranMsg struct {
	Result *challenge.Result
	Err    error
}

type recordedMsg struct {
	Awards []achievements.Award
	Err    error
}

type hintTickMsg time.Time

// ChallengeScreen edits and runs a solution to one challenge.
type ChallengeScreen struct {
	ch     content.Challenge
	deps   screen.Deps
	runner *challenge.Runner
	editor textarea.Model

	editing bool
	running bool
	cancel  context.CancelFunc

	result   *challenge.Result
	runErr   string
	attempts int
	solved   bool
	saveErr  string

	hinting bool
	hint    *tutor.Hint
	hintErr string
}

var _ screen.Screen = (*ChallengeScreen)(nil)
var _ screen.KeyHintProvider = (*ChallengeScreen)(nil)
var _ screen.InputCapturer = (*ChallengeScreen)(nil)
var _ screen.Closer = (*ChallengeScreen)(nil)

// New creates a ChallengeScreen with the editor focused on the starter code.
func New(ch content.Challenge, deps screen.Deps) *ChallengeScreen {
	ed := textarea.New()
	ed.ShowLineNumbers = true
	ed.Placeholder = ch.Signature
	ed.CharLimit = 8000
	ed.SetValue(ch.Starter)
	ed.Focus()

	runner := deps.Runner
	if runner == nil {
		runner = challenge.NewRunner()
	}
	return &ChallengeScreen{
		ch:      ch,
		deps:    deps,
		runner:  runner,
		editor:  ed,
		editing: true,
	}
}

func (s *ChallengeScreen) Init() tea.Cmd {
	return s.editor.Focus()
}

func (s *ChallengeScreen) Title() string {
	return s.ch.Title
}

// CapturingInput reports whether the editor has the keyboard.
func (s *ChallengeScreen) CapturingInput() bool {
	return s.editing
}

// Close cancels a running solution and any pending hint.
func (s *ChallengeScreen) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.hinting {
		s.deps.Tutor.Cancel()
		s.hinting = false
	}
}

func (s *ChallengeScreen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Run"},
			{Key: "Esc", Description: "Stop editing"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Edit"},
		{Key: "R", Description: "Run"},
	}
	if s.canHint() {
		hints = append(hints, layout.KeyHint{Key: "?", Description: "Hint"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// Result returns the latest run result, or nil.
func (s *ChallengeScreen) Result() *challenge.Result {
	return s.result
}

// Source returns the editor contents.
func (s *ChallengeScreen) Source() string {
	return s.editor.Value()
}

func (s *ChallengeScreen) canHint() bool {
	return s.deps.TutorEnabled() && s.result != nil && !s.result.Solved()
}

func (s *ChallengeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ranMsg:
		return s, s.onRan(msg)

	case recordedMsg:
		if msg.Err != nil {
			s.saveErr = msg.Err.Error()
			return s, nil
		}
		return s, screen.Recorded(msg.Awards)

	case hintTickMsg:
		return s, s.pollHint()

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+s" {
			return s, s.run()
		}
		if s.editing {
			if msg.String() == "esc" {
				s.editing = false
				s.editor.Blur()
				return s, nil
			}
			var cmd tea.Cmd
			s.editor, cmd = s.editor.Update(msg)
			return s, cmd
		}
		switch msg.String() {
		case "enter", "e":
			s.editing = true
			return s, s.editor.Focus()
		case "r":
			return s, s.run()
		case "?":
			return s, s.requestHint()
		}
		return s, nil
	}

	if s.editing {
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		return s, cmd
	}
	return s, nil
}

// run executes the editor contents in the background. A second run while
// one is in flight is ignored.
func (s *ChallengeScreen) run() tea.Cmd {
	if s.running {
		return nil
	}
	s.running = true
	s.runErr = ""

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	s.cancel = cancel
	runner, ch, src := s.runner, s.ch, s.editor.Value()
	return func() tea.Msg {
		defer cancel()
		res, err := runner.Run(ctx, ch, src)
		return ranMsg{Result: res, Err: err}
	}
}

func (s *ChallengeScreen) onRan(msg ranMsg) tea.Cmd {
	s.running = false
	s.cancel = nil

	if msg.Err != nil {
		var ce *challenge.CompileError
		if errors.As(msg.Err, &ce) {
			s.runErr = ce.Error()
		} else {
			s.runErr = "run failed: " + msg.Err.Error()
		}
		s.result = nil
		return nil
	}

	s.result = msg.Result
	s.attempts++
	s.hint, s.hintErr = nil, ""
	solved := msg.Result.Solved()
	if solved {
		s.solved = true
		s.editing = false
		s.editor.Blur()
	}

	if s.deps.Learner == nil {
		return nil
	}
	l, ch := s.deps.Learner, s.ch
	return func() tea.Msg {
		awards, err := l.RecordChallenge(context.Background(), ch, solved)
		return recordedMsg{Awards: awards, Err: err}
	}
}

func (s *ChallengeScreen) requestHint() tea.Cmd {
	if !s.canHint() || s.hinting {
		return nil
	}
	var failures []challenge.CaseResult
	for _, c := range s.result.Cases {
		if !c.Passed {
			failures = append(failures, c)
		}
	}
	s.hinting = true
	s.hint, s.hintErr = nil, ""
	s.deps.Tutor.RequestHint(context.Background(), tutor.HintInput{
		Challenge: s.ch,
		Source:    s.editor.Value(),
		Failures:  failures,
	})
	return hintTick()
}

func (s *ChallengeScreen) pollHint() tea.Cmd {
	if !s.hinting {
		return nil
	}
	reply, ok := s.deps.Tutor.Consume()
	if !ok {
		return hintTick()
	}
	s.hinting = false
	if reply.Err != nil {
		s.hintErr = reply.Err.Error()
		return nil
	}
	s.hint = reply.Hint
	return nil
}

func hintTick() tea.Cmd {
	return tea.Tick(hintPoll, func(t time.Time) tea.Msg { return hintTickMsg(t) })
}
