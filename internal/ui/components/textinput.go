package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/algoquest/internal/ui/theme"
)

// InputMode restricts which printable keys a TextInput accepts.
type InputMode int

const (
	InputAny     InputMode = iota
	InputNumber            // a single signed integer
	InputNumbers           // integers separated by commas or spaces
)

// TextInput wraps bubbles/textinput with app styling.
type TextInput struct {
	Model textinput.Model
	Mode  InputMode
	Label string
	err   string
}

// NewTextInput creates a focused input.
func NewTextInput(label, placeholder string, mode InputMode, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if limit > 0 {
		ti.CharLimit = limit
	}
	return TextInput{Model: ti, Mode: mode, Label: label}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update filters printable keys by mode and forwards everything else.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.Text != "" {
		for _, r := range kmsg.Text {
			if !t.accepts(r) {
				return t, nil
			}
		}
		t.err = ""
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) accepts(r rune) bool {
	digit := r >= '0' && r <= '9'
	switch t.Mode {
	case InputNumber:
		return digit || r == '-'
	case InputNumbers:
		return digit || r == '-' || r == ',' || r == ' '
	}
	return true
}

// View renders the label, the input and any error.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.Label != "" {
		view = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(t.Label) + " " + view
	}
	if t.err != "" {
		view += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render("✗ "+t.err)
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
	t.Model.CursorEnd()
}

// SetError shows err under the input until the next keystroke.
func (t *TextInput) SetError(err error) {
	if err == nil {
		t.err = ""
		return
	}
	t.err = err.Error()
}
