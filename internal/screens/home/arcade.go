package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursematch/internal/screens/welcome"
	"github.com/abhisek/coursematch/internal/ui/theme"
)

// renderTitle returns the banner centered at content width.
func renderTitle(width, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(welcome.RenderBanner(width))
}

// renderStatsBar renders the user and result counters in a bordered box.
func renderStatsBar(userID int64, past int, lastTop string, cw int, compact bool) string {
	userStyle := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	countStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	lastStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	user := dimStyle.Render("NO USER")
	if userID > 0 {
		user = userStyle.Render(fmt.Sprintf("USER #%d", userID))
	}

	var stats string
	if compact || lastTop == "" {
		stats = fmt.Sprintf("%s  %s", user, countStyle.Render(fmt.Sprintf("%d PAST RESULTS", past)))
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			user,
			countStyle.Render(fmt.Sprintf("%d PAST", past)),
			lastStyle.Render("LAST: "+strings.ToUpper(lastTop)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 24

// renderArcadeMenu renders each menu item as a fixed-width button.
func renderArcadeMenu(items []string, selected int, cw int, disabled map[int]bool) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Highlight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Highlight).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	disabledBtn := normalBtn.Foreground(theme.TextDim)

	var buttons []string
	for i, label := range items {
		switch {
		case disabled[i]:
			buttons = append(buttons, disabledBtn.Render(label))
		case i == selected:
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		default:
			buttons = append(buttons, normalBtn.Render(label))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderNotice renders a one-line warning above the menu.
func renderNotice(text string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}

// renderUpdateNote renders a dim one-line update notification.
func renderUpdateNote(latestVersion string, cw int) string {
	text := fmt.Sprintf("New version %s available. Run coursematch update", latestVersion)
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}
