package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/algoquest/internal/ui/theme"
)

const bannerArt = ` ▄▀█ █   █▀▀ █▀█ █▀█ █ █ █▀▀ █▀ ▀█▀
 █▀█ █▄▄ █▄█ █▄█ ▀▀█ █▄█ ██▄ ▄█  █ `

const bannerCompact = "A · L · G · O · Q · U · E · S · T"

// BannerWidth is the narrowest width that fits the full banner.
const BannerWidth = 38

// RenderBanner returns the ALGOQUEST banner in arcade yellow, falling back
// to spaced letters below BannerWidth columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	if width < BannerWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
