package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/algoquest/internal/learner"
	"github.com/abhisek/algoquest/internal/screens/welcome"
	"github.com/abhisek/algoquest/internal/ui/components"
	"github.com/abhisek/algoquest/internal/ui/theme"
)

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 24

func renderTitle(cw int, compact bool) string {
	w := cw
	if compact {
		w = 0
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(welcome.RenderBanner(w))
}

// renderStatsBar shows level, XP, streak and unlocked achievements in a
// double-bordered box, with a level progress bar underneath in full mode.
func renderStatsBar(st stats, cw int, compact bool) string {
	level := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	xp := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	streak := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	trophies := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)

	var line string
	if compact {
		line = fmt.Sprintf("%s %s %s %s",
			level.Render(fmt.Sprintf("Lv%d", st.level)),
			xp.Render(fmt.Sprintf("✦%d", st.xp)),
			streak.Render(fmt.Sprintf("★%d", st.streak)),
			trophies.Render(fmt.Sprintf("♛%d/%d", st.unlocked, st.total)),
		)
	} else {
		line = fmt.Sprintf("%s  %s  %s  %s",
			level.Render(fmt.Sprintf("LEVEL %d", st.level)),
			xp.Render(fmt.Sprintf("✦ %d XP", st.xp)),
			streak.Render(fmt.Sprintf("★ %d DAY STREAK", st.streak)),
			trophies.Render(fmt.Sprintf("♛ %d/%d", st.unlocked, st.total)),
		)
		cur, span := learner.LevelProgress(st.xp)
		bar := components.NewProgressBar("next level", cur, span, cw-6)
		line += "\n" + bar.View()
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

// renderArcadeMenu renders each menu item as a fixed-width button, or as
// plain lines when space is short.
func renderArcadeMenu(items []string, selected int, cw int, compact bool) string {
	var block string
	if compact {
		lines := make([]string, len(items))
		for i, label := range items {
			if i == selected {
				lines[i] = lipgloss.NewStyle().
					Foreground(theme.BgDark).
					Background(theme.ArcadeYellow).
					Bold(true).
					Render(" ▸ " + label + " ")
			} else {
				lines[i] = lipgloss.NewStyle().Foreground(theme.Text).Render("   " + label)
			}
		}
		block = strings.Join(lines, "\n")
	} else {
		buttons := make([]string, len(items))
		for i, label := range items {
			buttons[i] = components.ArcadeButton(label, i == selected, buttonWidth)
		}
		block = strings.Join(buttons, "\n")
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(block)
}

func renderTutorNote(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render("AI tutor off: set ALGOQUEST_LLM_PROVIDER to enable explanations")
}
