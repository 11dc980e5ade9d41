package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursematch/internal/ui/theme"
)

// ContentWidth returns the uniform inner width for boxed sections so they
// line up inside a cabinet frame.
func ContentWidth(frameWidth int) int {
	// cabinet border (2) + inner padding (4)
	return max(20, min(frameWidth-6, 64))
}

// CabinetFrame wraps content in a double-border frame, centered in the
// given dimensions.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a rounded-border card at content width cw.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 2).
		Render(content)
}
