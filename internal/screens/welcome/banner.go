package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/neurotrack/neurotrack/internal/ui/theme"
)

const bannerArt = `
 █   █ ████  █   █ ████   ███  █████ ████   ███   ████ █   █
 ██  █ █     █   █ █   █ █   █   █   █   █ █   █ █     █  █
 █ █ █ ███   █   █ ████  █   █   █   ████  █████ █     ███
 █  ██ █     █   █ █  █  █   █   █   █  █  █   █ █     █  █
 █   █ ████   ███  █   █  ███    █   █   █ █   █  ████ █   █`

const bannerCompact = "N E U R O T R A C K"

// RenderBanner returns the banner styled in the primary color, or the
// compact form for terminals narrower than the art.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 64 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
