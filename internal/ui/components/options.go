package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursematch/internal/ui/theme"
)

// OptionList is a numbered single-choice list. Options can be picked with
// the arrow keys and Enter or directly with their number.
type OptionList struct {
	Options  []string
	Selected int

	// Locked ignores input, e.g. while an answer is in flight.
	Locked bool
}

// NewOptionList creates a list with the first option highlighted.
func NewOptionList(options []string) OptionList {
	return OptionList{Options: options}
}

// Update handles navigation. It reports true when an option was chosen;
// the choice is then l.Selected.
func (l OptionList) Update(msg tea.Msg) (OptionList, bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || l.Locked || len(l.Options) == 0 {
		return l, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if l.Selected > 0 {
			l.Selected--
		}
	case "down", "j":
		if l.Selected < len(l.Options)-1 {
			l.Selected++
		}
	case "enter":
		return l, true
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			idx := int(key[0] - '1')
			if idx < len(l.Options) {
				l.Selected = idx
				return l, true
			}
		}
	}
	return l, false
}

// View renders the options, highlighting the current one.
func (l OptionList) View() string {
	var b strings.Builder
	for i, opt := range l.Options {
		prefix := "  "
		if i == l.Selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		switch {
		case l.Locked && i == l.Selected:
			b.WriteString(theme.Hint.Render(line))
		case l.Locked:
			b.WriteString(theme.Disabled.Render(line))
		case i == l.Selected:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
