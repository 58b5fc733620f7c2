// Package structures lets the learner push and pop on a bounded stack and
// enqueue and dequeue on a bounded queue.
package structures

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/algoquest/internal/achievements"
	"github.com/abhisek/algoquest/internal/dataset"
	"github.com/abhisek/algoquest/internal/ds"
	"github.com/abhisek/algoquest/internal/learner"
	"github.com/abhisek/algoquest/internal/screen"
	"github.com/abhisek/algoquest/internal/ui/components"
	"github.com/abhisek/algoquest/internal/ui/layout"
	"github.com/abhisek/algoquest/internal/ui/theme"
)

// Capacity bounds both containers.
const Capacity = 8

type recordedMsg struct {
	Awards []achievements.Award
	Err    error
}

type kind int

const (
	kindStack kind = iota
	kindQueue
)

// StructuresScreen shows one container at a time.
type StructuresScreen struct {
	learner *learner.Service
	stack   *ds.Stack
	queue   *ds.Queue
	active  kind

	adding bool
	input  components.TextInput
	status string
	isErr  bool
}

var _ screen.Screen = (*StructuresScreen)(nil)
var _ screen.KeyHintProvider = (*StructuresScreen)(nil)
var _ screen.InputCapturer = (*StructuresScreen)(nil)

// New creates a StructuresScreen. l may be nil.
func New(l *learner.Service) *StructuresScreen {
	return &StructuresScreen{
		learner: l,
		stack:   ds.NewStack(Capacity),
		queue:   ds.NewQueue(Capacity),
	}
}

func (s *StructuresScreen) Init() tea.Cmd {
	return nil
}

func (s *StructuresScreen) Title() string {
	return "Stack & Queue"
}

func (s *StructuresScreen) CapturingInput() bool {
	return s.adding
}

func (s *StructuresScreen) KeyHints() []layout.KeyHint {
	if s.adding {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Add"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	add, remove := "Push", "Pop"
	if s.active == kindQueue {
		add, remove = "Enqueue", "Dequeue"
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch"},
		{Key: "A", Description: add},
		{Key: "D", Description: remove},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StructuresScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recordedMsg:
		if msg.Err != nil {
			s.setStatus("progress not saved: "+msg.Err.Error(), true)
			return s, nil
		}
		return s, screen.Recorded(msg.Awards)

	case tea.KeyPressMsg:
		if s.adding {
			return s, s.handleInput(msg)
		}
		switch msg.String() {
		case "tab", "left", "right", "h", "l":
			s.active = 1 - s.active
			s.status = ""
		case "a", "enter":
			s.adding = true
			s.input = components.NewTextInput("Value:", "a number", components.InputNumber, 6)
			return s, s.input.Init()
		case "d", "backspace":
			return s, s.remove()
		}
	}
	return s, nil
}

func (s *StructuresScreen) handleInput(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.adding = false
		return nil
	case "enter":
		v, err := dataset.ParseValue(s.input.Value())
		if err != nil {
			s.input.SetError(err)
			return nil
		}
		s.adding = false
		return s.add(v)
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

// add pushes or enqueues v. Rejected operations are not recorded.
func (s *StructuresScreen) add(v int) tea.Cmd {
	var err error
	op := "push"
	if s.active == kindStack {
		err = s.stack.Push(v)
	} else {
		op = "enqueue"
		err = s.queue.Enqueue(v)
	}
	if err != nil {
		s.setStatus(describe(op, err), true)
		return nil
	}
	s.setStatus(fmt.Sprintf("%s %d", op, v), false)
	return s.record(op)
}

func (s *StructuresScreen) remove() tea.Cmd {
	var (
		v   int
		err error
	)
	op := "pop"
	if s.active == kindStack {
		v, err = s.stack.Pop()
	} else {
		op = "dequeue"
		v, err = s.queue.Dequeue()
	}
	if err != nil {
		s.setStatus(describe(op, err), true)
		return nil
	}
	s.setStatus(fmt.Sprintf("%s → %d", op, v), false)
	return s.record(op)
}

func describe(op string, err error) string {
	switch {
	case errors.Is(err, ds.ErrFull):
		return fmt.Sprintf("cannot %s: full (capacity %d)", op, Capacity)
	case errors.Is(err, ds.ErrEmpty):
		return fmt.Sprintf("cannot %s: empty", op)
	}
	return err.Error()
}

func (s *StructuresScreen) setStatus(msg string, isErr bool) {
	s.status, s.isErr = msg, isErr
}

func (s *StructuresScreen) record(op string) tea.Cmd {
	if s.learner == nil {
		return nil
	}
	l, active := s.learner, s.active
	return func() tea.Msg {
		var (
			awards []achievements.Award
			err    error
		)
		if active == kindStack {
			awards, err = l.RecordStackOp(context.Background(), op)
		} else {
			awards, err = l.RecordQueueOp(context.Background(), op)
		}
		return recordedMsg{Awards: awards, Err: err}
	}
}

func (s *StructuresScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	tabs := []string{"Stack (LIFO)", "Queue (FIFO)"}
	for i, t := range tabs {
		if kind(i) == s.active {
			tabs[i] = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(t)
		} else {
			tabs[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render(t)
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "     ")))
	b.WriteString("\n\n")

	if s.active == kindStack {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderStack(s.stack.Items())))
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderQueue(s.queue.Items())))
	}
	b.WriteString("\n\n")

	n := s.stack.Len()
	if s.active == kindQueue {
		n = s.queue.Len()
	}
	b.WriteString(layout.Centered(width, theme.Hint, fmt.Sprintf("%d/%d used", n, Capacity)))
	b.WriteString("\n")

	if s.adding {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
		b.WriteString("\n")
	}
	if s.status != "" {
		style := lipgloss.NewStyle().Foreground(theme.Success)
		if s.isErr {
			style = lipgloss.NewStyle().Foreground(theme.Error)
		}
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, style, s.status))
	}
	return b.String()
}

var cell = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(theme.Border).
	Foreground(theme.Text).
	Width(8).
	Align(lipgloss.Center)

// renderStack draws items bottom to top with the top marked.
func renderStack(items []int) string {
	if len(items) == 0 {
		return theme.Hint.Italic(true).Render("(empty stack)")
	}
	rows := make([]string, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		c := cell.Render(strconv.Itoa(items[i]))
		if i == len(items)-1 {
			c = lipgloss.JoinHorizontal(lipgloss.Center, cell.BorderForeground(theme.Accent).Render(strconv.Itoa(items[i])), theme.Hint.Render(" ← top"))
		}
		rows = append(rows, c)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderQueue draws items front to back, left to right.
func renderQueue(items []int) string {
	if len(items) == 0 {
		return theme.Hint.Italic(true).Render("(empty queue)")
	}
	cells := make([]string, len(items))
	for i, v := range items {
		st := cell
		if i == 0 {
			st = cell.BorderForeground(theme.Accent)
		}
		cells[i] = st.Render(strconv.Itoa(v))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	return lipgloss.JoinVertical(lipgloss.Left, theme.Hint.Render("front →"), row)
}
