package assessment

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	asmt "github.com/abhisek/coursematch/internal/assessment"
	"github.com/abhisek/coursematch/internal/ui/components"
	"github.com/abhisek/coursematch/internal/ui/theme"
)

func (s *AssessmentScreen) View(width, height int) string {
	switch {
	case s.blocked != nil:
		return s.renderBlocked(width, height)
	case s.confirmQuit:
		return renderQuitConfirm(width, height)
	case s.session == nil:
		return s.renderStarting(width, height)
	}
	return s.renderRound(width)
}

// renderRound renders the round header, the question and the status line.
func (s *AssessmentScreen) renderRound(width int) string {
	sess := s.session
	cw := components.ContentWidth(width)

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Round %d of %d", sess.CurrentRound, sess.MaxRounds))

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d courses in play  %d traits", sess.CoursesRemaining, sess.TraitsDiscovered))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Confidence", sess.Confidence/100, true, cw)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	if q := sess.Question; q != nil {
		if q.Category != "" {
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.TextDim).
				Render(strings.ToUpper(q.Category)))
			b.WriteString("\n")
		}
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Bold(true).
			Render(q.Prompt))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.options.View()))
		b.WriteString("\n")
	}

	if status := s.statusLine(); status != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, status))
		b.WriteString("\n")
	}

	if len(sess.Preview) > 0 && !s.busy {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderPreview(sess.Preview, cw)))
	}

	return b.String()
}

// statusLine describes the operation in flight or the last error.
func (s *AssessmentScreen) statusLine() string {
	if s.errMsg != "" {
		return theme.ErrorText.Render("✗ " + s.errMsg)
	}
	if !s.busy {
		if s.session.CanFinishEarly {
			return theme.Hint.Render("Enough answers to finish early (F)")
		}
		return ""
	}

	if p := s.cfg.Navigator.Pending(); p != nil && p.Phase == asmt.PhaseTransition && p.TraitRecorded != "" {
		return lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Render("✓ Trait recorded: " + p.TraitRecorded)
	}

	var label string
	switch s.op {
	case asmt.OpAnswer:
		label = "Submitting answer..."
	case asmt.OpPrevious:
		label = "Going back..."
	case asmt.OpFinish:
		label = "Finishing assessment..."
	default:
		label = "Working..."
	}
	return s.spinner.View() + " " + theme.Hint.Render(label)
}

func renderPreview(preview []asmt.Preview, cw int) string {
	var lines []string
	lines = append(lines, theme.Subtitle.Render("Leading courses"))
	for _, p := range preview {
		lines = append(lines, fmt.Sprintf("%s  %s",
			theme.ScoreColor(p.Score).Render(fmt.Sprintf("%3.0f%%", p.Score)),
			theme.Body.Render(p.Course)))
	}
	return components.Card(strings.Join(lines, "\n"), cw)
}

func (s *AssessmentScreen) renderStarting(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.ErrorText.Render("Could not start the assessment")+"\n\n"+
				theme.Body.Render(s.errMsg)+"\n\n"+
				theme.Hint.Render("Press R to retry or Esc to go back"))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		s.spinner.View()+" "+theme.Hint.Render("Preparing your assessment..."))
}

func (s *AssessmentScreen) renderBlocked(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.ErrorText.Render("Your academic profile is not complete"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render("Add your academic information before taking the assessment."))
	if s.cfg.ProfileURL != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Underline(true).Render(s.cfg.ProfileURL))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Press Esc to go back"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func renderQuitConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Leave the assessment?"))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Your answers so far will be discarded."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Render("[N] No, keep going"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
