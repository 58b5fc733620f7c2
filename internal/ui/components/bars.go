package components

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/algoquest/internal/steps"
	"github.com/abhisek/algoquest/internal/ui/theme"
)

const (
	maxBarWidth = 6
	barGap      = 1
)

// Bars renders a frame as a vertical bar chart, one bar per element,
// colored by its marker. Heights scale linearly between the smallest and
// largest value; every bar is at least one row tall.
func Bars(frame steps.Frame, width, height int) string {
	n := len(frame.Values)
	if n == 0 {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).Italic(true).Render("(empty dataset)")
	}

	bw := barWidth(n, width)
	labels := valueLabels(frame.Values, bw)
	rows := max(height-2, 1)
	if labels == "" {
		rows = max(height-1, 1)
	}

	lo, hi := 0, 0
	for _, v := range frame.Values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := max(hi-lo, 1)

	heights := make([]int, n)
	for i, v := range frame.Values {
		heights[i] = max(1, (v-lo)*rows/span)
	}

	styles := make([]lipgloss.Style, n)
	for i := range styles {
		tag := steps.TagNormal
		if i < len(frame.Markers) {
			tag = frame.Markers[i]
		}
		styles[i] = lipgloss.NewStyle().Foreground(theme.TagColor(tag))
	}

	block := strings.Repeat("█", bw)
	blank := strings.Repeat(" ", bw)
	gap := strings.Repeat(" ", barGap)

	var lines []string
	for r := rows; r >= 1; r-- {
		var b strings.Builder
		for i := range n {
			if i > 0 {
				b.WriteString(gap)
			}
			if heights[i] >= r {
				b.WriteString(styles[i].Render(block))
			} else {
				b.WriteString(blank)
			}
		}
		lines = append(lines, b.String())
	}
	if labels != "" {
		lines = append(lines, labels)
	}
	lines = append(lines, markerLine(frame.Markers, bw))

	chart := strings.Join(lines, "\n")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, chart)
}

// barWidth fits n bars and their gaps into width.
func barWidth(n, width int) int {
	return max(1, min(maxBarWidth, (width-(n-1)*barGap)/n))
}

// valueLabels centers each value under its bar, or returns "" when some
// value does not fit.
func valueLabels(values []int, bw int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		s := strconv.Itoa(v)
		if len(s) > bw {
			return ""
		}
		left := (bw - len(s)) / 2
		parts[i] = strings.Repeat(" ", left) + s + strings.Repeat(" ", bw-len(s)-left)
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Join(parts, strings.Repeat(" ", barGap)))
}

// markerLine puts a caret under every highlighted element.
func markerLine(markers []steps.Tag, bw int) string {
	var b strings.Builder
	for i, m := range markers {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", barGap))
		}
		if m == steps.TagChecking || m == steps.TagComparing || m == steps.TagFound {
			left := (bw - 1) / 2
			b.WriteString(strings.Repeat(" ", left))
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TagColor(m)).Render("▲"))
			b.WriteString(strings.Repeat(" ", bw-1-left))
		} else {
			b.WriteString(strings.Repeat(" ", bw))
		}
	}
	return b.String()
}

// Legend lists the marker colors.
func Legend() string {
	tags := []steps.Tag{steps.TagNormal, steps.TagChecking, steps.TagComparing, steps.TagFound, steps.TagSorted, steps.TagNotFound}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = lipgloss.NewStyle().Foreground(theme.TagColor(t)).Render("■") + " " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.String())
	}
	return strings.Join(parts, "  ")
}
