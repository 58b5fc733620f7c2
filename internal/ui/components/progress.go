package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/algoquest/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label     string
	Current   int
	Max       int
	ShowCount bool
	Width     int
	Fill      color.Color
}

// NewProgressBar creates a progress bar of current out of max.
func NewProgressBar(label string, current, max, width int) ProgressBar {
	return ProgressBar{
		Label:     label,
		Current:   current,
		Max:       max,
		ShowCount: true,
		Width:     width,
		Fill:      theme.Secondary,
	}
}

// Percent returns the filled fraction in [0, 1].
func (p ProgressBar) Percent() float64 {
	if p.Max <= 0 {
		return 0
	}
	return min(max(float64(p.Current)/float64(p.Max), 0), 1)
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	count := ""
	if p.ShowCount {
		count = fmt.Sprintf("  %d/%d", min(p.Current, p.Max), p.Max)
	}

	barWidth := max(p.Width-lipgloss.Width(result)-len(count), 4)
	filled := int(float64(barWidth) * p.Percent())

	result += lipgloss.NewStyle().Background(p.Fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))

	if count != "" {
		result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(count)
	}
	return result
}
