package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursematch/internal/ui/theme"
)

const bannerArt = `
╔═╗╔═╗╦ ╦╦═╗╔═╗╔═╗╔╦╗╔═╗╔╦╗╔═╗╦ ╦
║  ║ ║║ ║╠╦╝╚═╗║╣ ║║║╠═╣ ║ ║  ╠═╣
╚═╝╚═╝╚═╝╩╚═╚═╝╚═╝╩ ╩╩ ╩ ╩ ╚═╝╩ ╩`

const bannerCompact = "C O U R S E M A T C H"

// RenderBanner returns the banner styled in the primary color, falling
// back to spaced letters below 36 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 36 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
