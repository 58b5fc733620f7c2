package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/algoquest/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota
	MascotCelebrating               // an achievement unlocked today
	MascotSleepy                    // no active streak
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ <=> │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ <=> │
└─╥═╥─┘
  ╚═╝`

const mascotSleepy = `┌─────┐
│ - - │ z
│  ▽  │
│ <=> │
└─────┘`

// RenderMascot returns the mascot art for variant.
func RenderMascot(variant MascotVariant) string {
	art, fg := mascotIdle, theme.Primary
	switch variant {
	case MascotCelebrating:
		art, fg = mascotCelebrating, theme.ArcadeYellow
	case MascotSleepy:
		art, fg = mascotSleepy, theme.TextDim
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
