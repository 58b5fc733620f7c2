package visualize

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/algoquest/internal/dataset"
	"github.com/abhisek/algoquest/internal/playback"
	"github.com/abhisek/algoquest/internal/steps"
	"github.com/abhisek/algoquest/internal/ui/components"
	"github.com/abhisek/algoquest/internal/ui/layout"
	"github.com/abhisek/algoquest/internal/ui/theme"
)

func (s *VisualizeScreen) View(width, height int) string {
	if s.ctrl == nil {
		return layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error), "\n\n"+s.errMsg)
	}

	v := s.ctrl.View()
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Hint, s.infoLine()))
	b.WriteString("\n\n")

	chartHeight := max(height-14, 6)
	if s.explanation != nil || s.explaining || s.tutorErr != "" {
		chartHeight = max(chartHeight-5, 6)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Bars(v.Frame, cw, chartHeight)))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(width, stateStyle(v.State),
		fmt.Sprintf("Step %d/%d · %s · %s/step", v.Cursor+1, v.Total, v.State, s.ctrl.Delay())))
	b.WriteString("\n")

	if v.State == playback.StateComplete {
		b.WriteString(layout.Centered(width, outcomeStyle(v.Outcome), steps.Describe(s.alg, s.ctrl.History(), s.ctrl.Target())))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Legend()))
	b.WriteString("\n")

	switch s.mode {
	case modeEditData, modeEditTarget, modeInsert, modeDelete:
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
		b.WriteString("\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error), s.errMsg))
		b.WriteString("\n")
	}

	if panel := s.tutorPanel(cw); panel != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, panel))
	}
	return b.String()
}

func (s *VisualizeScreen) infoLine() string {
	line := "Data: " + dataset.Format(s.ctrl.Dataset())
	if s.alg.NeedsTarget {
		line += fmt.Sprintf("   Target: %d", s.ctrl.Target())
	}
	return line
}

func (s *VisualizeScreen) tutorPanel(cw int) string {
	card := theme.Card.Width(cw)
	switch {
	case s.explaining:
		r := []rune(spinnerChars)
		return card.Render(theme.Hint.Render(string(r[s.spin%len(r)]) + " Asking the tutor..."))
	case s.tutorErr != "":
		return card.Render(lipgloss.NewStyle().Foreground(theme.Error).Render("Tutor: " + s.tutorErr))
	case s.explanation != nil:
		text := theme.Subtitle.Render(fmt.Sprintf("Step %d", s.explanation.Step+1)) + "\n" +
			theme.Body.Width(cw-4).Render(s.explanation.Explanation)
		if s.explanation.Next != "" {
			text += "\n" + theme.Hint.Width(cw-4).Render("Next: "+s.explanation.Next)
		}
		return card.Render(text)
	}
	return ""
}

func stateStyle(st playback.State) lipgloss.Style {
	switch st {
	case playback.StatePlaying:
		return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	case playback.StateComplete:
		return lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	default:
		return theme.Hint
	}
}

func outcomeStyle(o steps.Outcome) lipgloss.Style {
	if o.Kind == steps.OutcomeNotFound {
		return lipgloss.NewStyle().Foreground(theme.BarNotFound).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
}
