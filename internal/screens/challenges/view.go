package challenges

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/algoquest/internal/challenge"
	"github.com/abhisek/algoquest/internal/dataset"
	"github.com/abhisek/algoquest/internal/ui/components"
	"github.com/abhisek/algoquest/internal/ui/layout"
	"github.com/abhisek/algoquest/internal/ui/theme"
)

func (s *ChallengeScreen) View(width, height int) string {
	cw := min(max(width-8, 40), 100)
	var b strings.Builder

	b.WriteString("\n")
	meta := s.ch.Signature
	if s.ch.Difficulty != "" {
		meta += "  ·  " + s.ch.Difficulty
	}
	meta += fmt.Sprintf("  ·  %d XP", s.ch.XPReward)
	b.WriteString(layout.Centered(width, theme.Hint, meta))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Body.Width(cw).Render(s.ch.Prompt)))
	b.WriteString("\n\n")

	edHeight := max(height-18, 6)
	if s.result != nil {
		edHeight = max(edHeight-len(s.result.Cases), 5)
	}
	s.editor.SetWidth(cw)
	s.editor.SetHeight(edHeight)
	border := theme.Border
	if s.editing {
		border = theme.Primary
	}
	editor := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Render(s.editor.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, editor))
	b.WriteString("\n")

	switch {
	case s.running:
		b.WriteString(layout.Centered(width, theme.Hint, "Running..."))
		b.WriteString("\n")
	case s.runErr != "":
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Incorrect.Width(cw).Render(s.runErr)))
		b.WriteString("\n")
	case s.result != nil:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderResult(s.result, cw)))
		b.WriteString("\n")
	}

	if s.saveErr != "" {
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error), "Progress was not saved: "+s.saveErr))
		b.WriteString("\n")
	}

	if panel := s.hintPanel(cw); panel != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, panel))
	}
	return b.String()
}

func renderResult(res *challenge.Result, cw int) string {
	var lines []string
	headline := fmt.Sprintf("%d/%d cases passed", res.Passed, res.Total)
	if res.Solved() {
		lines = append(lines, theme.Correct.Render("✓ Solved! "+headline))
	} else {
		lines = append(lines, theme.Incorrect.Render("✗ "+headline))
	}

	for _, c := range res.Cases {
		in := "[" + dataset.Format(c.Input) + "]"
		if c.Target != nil {
			in += fmt.Sprintf(", %d", *c.Target)
		}
		if c.Passed {
			lines = append(lines, theme.Hint.Render(fmt.Sprintf("  ✓ solve(%s) = %s", in, c.Got)))
			continue
		}
		line := fmt.Sprintf("  ✗ solve(%s)", in)
		switch {
		case c.Err != "":
			line += ": " + c.Err
		default:
			line += fmt.Sprintf(" want %s, got %s", c.Want, c.Got)
			if c.Diff != "" {
				line += "   " + c.Diff
			}
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Error).Width(cw).Render(line))
	}

	bar := components.NewProgressBar("", res.Passed, res.Total, min(cw, 40))
	if res.Solved() {
		bar.Fill = theme.Success
	}
	lines = append(lines, "", bar.View())
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (s *ChallengeScreen) hintPanel(cw int) string {
	card := theme.Card.Width(cw)
	switch {
	case s.hinting:
		return card.Render(theme.Hint.Render("Asking the tutor for a hint..."))
	case s.hintErr != "":
		return card.Render(lipgloss.NewStyle().Foreground(theme.Error).Render("Tutor: " + s.hintErr))
	case s.hint != nil:
		text := theme.Subtitle.Render("Hint") + "\n" + theme.Body.Width(cw-4).Render(s.hint.Hint)
		if s.hint.Concept != "" {
			text += "\n" + theme.Hint.Render("Concept: "+s.hint.Concept)
		}
		return card.Render(text)
	}
	return ""
}
