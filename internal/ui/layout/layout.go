// Package layout renders the chrome around every screen: a header bar, a
// footer of key hints and the frame joining them with the screen body.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursematch/internal/ui/theme"
)

// The assessment card needs this much room to show a question and four
// options without wrapping.
const (
	MinWidth  = 60
	MinHeight = 20
)

const brand = "CourseMatch"

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	body := fmt.Sprintf("Window too small\n\nNeed %d×%d, have %d×%d", MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(body))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
}

// RenderHeader shows the brand on the left, title centered and status on
// the right. The title is dropped first when space runs out.
func RenderHeader(title, status string, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(brand)
	mid := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status)

	// border + padding on each side
	inner := max(width-4, 0)
	used := lipgloss.Width(left) + lipgloss.Width(right)
	if used+lipgloss.Width(mid)+2 > inner {
		mid = ""
	}

	gapL := max((inner-lipgloss.Width(mid))/2-lipgloss.Width(left), 1)
	gapR := max(inner-used-gapL-lipgloss.Width(mid), 1)
	line := left + strings.Repeat(" ", gapL) + mid + strings.Repeat(" ", gapR) + right

	return bar(width).Render(line)
}

// RenderFooter lists hints left to right, leaving out the ones that no
// longer fit.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	inner := max(width-4, 0)
	var line string
	for _, h := range hints {
		part := keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
		next := part
		if line != "" {
			next = line + "   " + part
		}
		if lipgloss.Width(next) > inner {
			break
		}
		line = next
	}
	return bar(width).Render(line)
}

// RenderFrame stacks header, body and footer, sizing the body to fill the
// remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(bodyHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
