// Package visualize animates one algorithm's step history as a bar chart.
package visualize

import (
	"context"
	"fmt"
	"slices"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/algoquest/internal/dataset"
	"github.com/abhisek/algoquest/internal/playback"
	"github.com/abhisek/algoquest/internal/screen"
	"github.com/abhisek/algoquest/internal/steps"
	"github.com/abhisek/algoquest/internal/tutor"
	"github.com/abhisek/algoquest/internal/ui/components"
	"github.com/abhisek/algoquest/internal/ui/layout"
)

const (
	minDelay     = 50 * time.Millisecond
	maxDelay     = 5 * time.Second
	tutorPoll    = 150 * time.Millisecond
	randomSize   = 12
	spinnerChars = "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏"
)

type mode int

const (
	modeWatch mode = iota
	modeEditData
	modeEditTarget
	modeInsert
	modeDelete
)

// Options configures a VisualizeScreen. Data and Target default to the
// algorithm's sample.
type Options struct {
	Deps      screen.Deps
	Data      []int
	Target    *int
	Scheduler playback.Scheduler
}

// VisualizeScreen replays a playback.Controller. Frames reach the screen
// through a one-slot channel fed by the controller's observer; a newer
// frame replaces one the UI has not read yet.
type VisualizeScreen struct {
	alg  steps.Algorithm
	deps screen.Deps
	ctrl *playback.Controller

	frames chan frameMsg
	done   chan struct{}
	latest frameMsg

	history  *steps.History
	recorded bool

	mode   mode
	input  components.TextInput
	errMsg string

	explaining  bool
	explanation *tutor.Explanation
	tutorErr    string
	spin        int

	seed uint64
}

var _ screen.Screen = (*VisualizeScreen)(nil)
var _ screen.KeyHintProvider = (*VisualizeScreen)(nil)
var _ screen.InputCapturer = (*VisualizeScreen)(nil)
var _ screen.Closer = (*VisualizeScreen)(nil)

// New creates a VisualizeScreen for alg.
func New(alg steps.Algorithm, opts Options) *VisualizeScreen {
	s := &VisualizeScreen{
		alg:    alg,
		deps:   opts.Deps,
		frames: make(chan frameMsg, 1),
		done:   make(chan struct{}),
		seed:   uint64(time.Now().UnixNano()),
	}

	data := alg.Sample
	if opts.Data != nil {
		data = opts.Data
	}
	target := alg.SampleTarget
	if opts.Target != nil {
		target = *opts.Target
	}

	ctrlOpts := []playback.Option{
		playback.WithDelay(opts.Deps.DelayFor(alg)),
		playback.WithTarget(target),
		playback.WithObserver(s.publish),
	}
	if opts.Scheduler != nil {
		ctrlOpts = append(ctrlOpts, playback.WithScheduler(opts.Scheduler))
	}

	ctrl, err := playback.New(alg, data, ctrlOpts...)
	if err != nil {
		s.errMsg = err.Error()
		ctrl, err = playback.New(alg, alg.Sample, ctrlOpts...)
		if err != nil {
			s.errMsg = err.Error()
			return s
		}
	}
	s.ctrl = ctrl
	s.history = ctrl.History()
	return s
}

// publish is the controller observer. It runs under the controller lock,
// so it never blocks: a pending unread frame is replaced.
func (s *VisualizeScreen) publish(frame steps.Frame, state playback.State) {
	msg := frameMsg{Frame: frame, State: state}
	select {
	case s.frames <- msg:
	default:
		select {
		case <-s.frames:
		default:
		}
		s.frames <- msg
	}
}

// waitForFrame blocks until the controller publishes or the screen closes.
func (s *VisualizeScreen) waitForFrame() tea.Cmd {
	frames, done := s.frames, s.done
	return func() tea.Msg {
		select {
		case f := <-frames:
			return f
		case <-done:
			return nil
		}
	}
}

func (s *VisualizeScreen) Init() tea.Cmd {
	if s.ctrl == nil {
		return nil
	}
	return s.waitForFrame()
}

// Close stops playback and any tutor request.
func (s *VisualizeScreen) Close() {
	select {
	case <-s.done:
		return
	default:
		close(s.done)
	}
	if s.ctrl != nil {
		s.ctrl.Close()
	}
	if s.explaining {
		s.deps.Tutor.Cancel()
	}
}

func (s *VisualizeScreen) Title() string {
	return s.alg.Title
}

// CapturingInput reports whether a text field owns the keyboard.
func (s *VisualizeScreen) CapturingInput() bool {
	return s.mode != modeWatch
}

func (s *VisualizeScreen) KeyHints() []layout.KeyHint {
	if s.mode != modeWatch {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Space", Description: "Play/Pause"},
		{Key: "←→", Description: "Step"},
		{Key: "R", Description: "Reset"},
		{Key: "E", Description: "Edit"},
		{Key: "I/X", Description: "Insert/Delete"},
		{Key: "N", Description: "Random"},
	}
	if s.alg.NeedsTarget {
		hints = append(hints, layout.KeyHint{Key: "T", Description: "Target"})
	}
	hints = append(hints, layout.KeyHint{Key: "+/-", Description: "Speed"})
	if s.deps.TutorEnabled() {
		hints = append(hints, layout.KeyHint{Key: "?", Description: "Explain"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *VisualizeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.ctrl == nil {
		return s, nil
	}

	switch msg := msg.(type) {
	case frameMsg:
		s.latest = msg
		return s, tea.Batch(s.waitForFrame(), s.onFrame(msg))

	case recordedMsg:
		if msg.Err != nil {
			s.errMsg = "could not save progress: " + msg.Err.Error()
			return s, nil
		}
		return s, screen.Recorded(msg.Awards)

	case tutorTickMsg:
		return s, s.pollTutor()

	case tea.KeyPressMsg:
		if s.mode != modeWatch {
			return s.handleInputKey(msg)
		}
		return s, s.handleKey(msg)
	}
	return s, nil
}

// onFrame tracks history replacement and records the first completion of
// each history.
func (s *VisualizeScreen) onFrame(f frameMsg) tea.Cmd {
	if h := s.ctrl.History(); h != s.history {
		s.history = h
		s.recorded = false
		s.explanation = nil
	}
	if f.State != playback.StateComplete || s.recorded || s.deps.Learner == nil {
		return nil
	}
	s.recorded = true
	l, alg := s.deps.Learner, s.alg
	return func() tea.Msg {
		awards, err := l.RecordVisualization(context.Background(), alg)
		return recordedMsg{Awards: awards, Err: err}
	}
}

func (s *VisualizeScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	s.errMsg = ""
	switch msg.String() {
	case "space", " ":
		s.ctrl.Toggle()
	case "r":
		s.report(s.ctrl.Reset())
	case "left", "h":
		s.ctrl.StepBack()
	case "right", "l":
		s.ctrl.StepForward()
	case "home", "g":
		s.ctrl.Seek(0)
	case "end", "G":
		s.ctrl.Seek(s.ctrl.View().Total - 1)
	case "+", "=":
		s.ctrl.SetDelay(max(s.ctrl.Delay()/2, minDelay))
	case "-", "_":
		s.ctrl.SetDelay(min(s.ctrl.Delay()*2, maxDelay))
	case "n":
		s.randomize()
	case "e":
		s.ctrl.Pause()
		s.mode = modeEditData
		s.input = components.NewTextInput("Values:", "e.g. 5, 3, 8, 1", components.InputNumbers, 200)
		s.input.SetValue(dataset.Format(s.ctrl.Dataset()))
		return s.input.Init()
	case "i":
		s.ctrl.Pause()
		s.mode = modeInsert
		s.input = components.NewTextInput("Insert:", "a number", components.InputNumber, 6)
		return s.input.Init()
	case "x":
		s.ctrl.Pause()
		s.mode = modeDelete
		s.input = components.NewTextInput("Delete:", "a number", components.InputNumber, 6)
		return s.input.Init()
	case "t":
		if !s.alg.NeedsTarget {
			return nil
		}
		s.ctrl.Pause()
		s.mode = modeEditTarget
		s.input = components.NewTextInput("Target:", "a number", components.InputNumber, 6)
		return s.input.Init()
	case "?":
		return s.explain()
	}
	return nil
}

func (s *VisualizeScreen) handleInputKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.mode = modeWatch
		return s, nil
	case "enter":
		if err := s.apply(); err != nil {
			s.input.SetError(err)
			return s, nil
		}
		s.mode = modeWatch
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// apply commits the text input to the controller.
func (s *VisualizeScreen) apply() error {
	if s.mode == modeEditData {
		data, err := dataset.Parse(s.input.Value())
		if err != nil {
			return err
		}
		return s.ctrl.SetDataset(data)
	}

	v, err := dataset.ParseValue(s.input.Value())
	if err != nil {
		return err
	}
	switch s.mode {
	case modeInsert:
		if err := dataset.Check(append(s.ctrl.Dataset(), v)); err != nil {
			return err
		}
		return s.ctrl.Insert(v)
	case modeDelete:
		ok, err := s.ctrl.Delete(v)
		if err == nil && !ok {
			err = fmt.Errorf("%d is not in the list", v)
		}
		return err
	}
	return s.ctrl.SetTarget(v)
}

// randomize loads a fresh random dataset, sorted for algorithms that
// need sorted input.
func (s *VisualizeScreen) randomize() {
	s.seed++
	data := dataset.Random(randomSize, s.seed)
	if s.alg.Name == "binary-search" {
		slices.Sort(data)
	}
	s.report(s.ctrl.SetDataset(data))
}

func (s *VisualizeScreen) report(err error) {
	if err != nil {
		s.errMsg = err.Error()
	}
}

// explain pauses playback and asks the tutor about the current step.
func (s *VisualizeScreen) explain() tea.Cmd {
	if !s.deps.TutorEnabled() || s.explaining {
		return nil
	}
	s.ctrl.Pause()
	v := s.ctrl.View()

	in := tutor.ExplainInput{
		Algorithm: s.alg,
		Frame:     v.Frame,
		Total:     v.Total,
	}
	if v.Cursor > 0 {
		prev := s.ctrl.History().Frame(v.Cursor - 1)
		in.Previous = &prev
	}
	if s.alg.NeedsTarget {
		target := s.ctrl.Target()
		in.Target = &target
	}

	s.explaining = true
	s.explanation = nil
	s.tutorErr = ""
	s.deps.Tutor.RequestExplanation(context.Background(), in)
	return tutorTick()
}

func (s *VisualizeScreen) pollTutor() tea.Cmd {
	if !s.explaining {
		return nil
	}
	reply, ok := s.deps.Tutor.Consume()
	if !ok {
		s.spin++
		return tutorTick()
	}
	s.explaining = false
	if reply.Err != nil {
		s.tutorErr = reply.Err.Error()
		return nil
	}
	s.explanation = reply.Explanation
	return nil
}

func tutorTick() tea.Cmd {
	return tea.Tick(tutorPoll, func(t time.Time) tea.Msg { return tutorTickMsg(t) })
}
