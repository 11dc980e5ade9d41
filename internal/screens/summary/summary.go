// Package summary shows the outcome of an assessment: ranked courses, the
// traits behind them and, on request, a narrative from the advisor.
package summary

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursematch/internal/advisor"
	"github.com/abhisek/coursematch/internal/results"
	"github.com/abhisek/coursematch/internal/router"
	"github.com/abhisek/coursematch/internal/screen"
	"github.com/abhisek/coursematch/internal/store"
	"github.com/abhisek/coursematch/internal/ui/components"
	"github.com/abhisek/coursematch/internal/ui/layout"
	"github.com/abhisek/coursematch/internal/ui/theme"
)

// Explainer narrates a record. *advisor.Advisor implements it.
type Explainer interface {
	Explain(ctx context.Context, rec *results.Record) (*advisor.Advice, error)
}

// Options configures a SummaryScreen.
type Options struct {
	// Repo and UserID are used to save a fresh result. Leave Repo nil to
	// show a stored result read-only.
	Repo   store.ResultRepo
	UserID int64

	// Advisor is optional; without it the advice key is hidden.
	Advisor Explainer
}

type savedMsg struct {
	ID  int64
	Err error
}

type adviceMsg struct {
	Advice *advisor.Advice
	Err    error
}

// SummaryScreen displays a recommendation record.
type SummaryScreen struct {
	rec     *results.Record
	opts    Options
	ctx     context.Context
	cancel  context.CancelFunc
	spinner spinner.Model

	selected int

	saveState string // "", "saving", "saved" or an error message

	advising  bool
	advice    *advisor.Advice
	adviceErr string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.Closer = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(rec *results.Record, opts Options) *SummaryScreen {
	ctx, cancel := context.WithCancel(context.Background())
	return &SummaryScreen{
		rec:     rec,
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	if s.opts.Repo == nil || s.rec == nil {
		return nil
	}
	s.saveState = "saving"
	repo, userID, rec, ctx := s.opts.Repo, s.opts.UserID, s.rec, s.ctx
	return func() tea.Msg {
		id, err := results.Save(ctx, repo, userID, rec)
		return savedMsg{ID: id, Err: err}
	}
}

func (s *SummaryScreen) Title() string {
	return "Your Matches"
}

// Close cancels an advisor request in flight.
func (s *SummaryScreen) Close() {
	s.cancel()
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Courses"}}
	if s.opts.Advisor != nil && s.advice == nil && !s.advising {
		hints = append(hints, layout.KeyHint{Key: "A", Description: "Ask advisor"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Home"})
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.Err != nil {
			s.saveState = "not saved: " + msg.Err.Error()
		} else {
			s.saveState = "saved"
		}
		return s, nil

	case adviceMsg:
		s.advising = false
		if msg.Err != nil {
			s.adviceErr = msg.Err.Error()
		} else {
			s.advice = msg.Advice
		}
		return s, nil

	case spinner.TickMsg:
		if !s.advising {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.rec != nil && s.selected < s.rec.Len()-1 {
				s.selected++
			}
		case "a":
			return s, s.askAdvisor()
		}
	}
	return s, nil
}

func (s *SummaryScreen) askAdvisor() tea.Cmd {
	if s.opts.Advisor == nil || s.advising || s.advice != nil || s.rec == nil {
		return nil
	}
	s.advising = true
	s.adviceErr = ""
	adv, rec, ctx := s.opts.Advisor, s.rec, s.ctx
	return tea.Batch(func() tea.Msg {
		a, err := adv.Explain(ctx, rec)
		return adviceMsg{Advice: a, Err: err}
	}, s.spinner.Tick)
}

func (s *SummaryScreen) View(width, height int) string {
	rec := s.rec
	if rec == nil {
		return ""
	}
	cw := components.ContentWidth(width)
	center := func(str string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, str) }

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Assessment complete!"))
	b.WriteString("\n")

	var meta []string
	if !rec.CompletedAt().IsZero() {
		meta = append(meta, rec.CompletedAt().Local().Format("Jan 02, 2006 15:04"))
	}
	if c, ok := rec.Confidence(); ok {
		meta = append(meta, fmt.Sprintf("Confidence %.0f%%", c))
	}
	if s.saveState != "" {
		meta = append(meta, s.saveState)
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(strings.Join(meta, "  ·  ")))
	b.WriteString("\n\n")

	if traits := rec.TraitSummary(); len(traits) > 0 {
		parts := make([]string, 0, len(traits))
		for _, t := range traits {
			parts = append(parts, fmt.Sprintf("%s ×%d", t.Name, t.Count))
		}
		b.WriteString(lipgloss.NewStyle().
			Width(cw).
			Foreground(theme.Secondary).
			Align(lipgloss.Center).
			Render(strings.Join(parts, "   ")))
		b.WriteString("\n\n")
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
	b.WriteString(center(theme.Subtitle.Render("Recommended courses")))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n")

	if rec.Len() == 0 {
		b.WriteString(center(theme.Hint.Render("The service returned no recommendations.")))
		b.WriteString("\n")
	}
	for i, c := range rec.Courses() {
		b.WriteString(center(renderCourseLine(c, i == s.selected, cw)))
		b.WriteString("\n")
	}

	if s.selected < rec.Len() {
		b.WriteString("\n")
		b.WriteString(center(renderCourseDetail(rec.Course(s.selected), cw)))
		b.WriteString("\n")
	}

	if advice := s.renderAdvice(cw); advice != "" {
		b.WriteString("\n")
		b.WriteString(center(advice))
	}

	return b.String()
}

func renderCourseLine(c results.Course, selected bool, cw int) string {
	prefix := "  "
	nameStyle := theme.Unselected
	if selected {
		prefix = "▸ "
		nameStyle = theme.Selected
	}
	score := theme.ScoreColor(c.Score).Render(fmt.Sprintf("%3.0f%%", c.Score))
	name := nameStyle.Render(fmt.Sprintf("%s%d. %s", prefix, c.Rank, c.Name))

	pad := cw - lipgloss.Width(name) - lipgloss.Width(score)
	if pad < 1 {
		pad = 1
	}
	return name + strings.Repeat(" ", pad) + score
}

func renderCourseDetail(c results.Course, cw int) string {
	var lines []string
	lines = append(lines, components.NewProgressBar("Match", c.Score/100, true, cw-6).View())
	if c.Description != "" {
		lines = append(lines, "", theme.Body.Render(c.Description))
	}
	if len(c.Traits) > 0 {
		names := make([]string, 0, len(c.Traits))
		for _, t := range c.Traits {
			names = append(names, t.Name)
		}
		lines = append(lines, "", theme.Hint.Render("Matched traits: ")+theme.Body.Render(strings.Join(names, ", ")))
	}
	if c.MinimumGWA != nil {
		lines = append(lines, theme.Hint.Render("Minimum GWA: ")+theme.Body.Render(fmt.Sprintf("%.2f", *c.MinimumGWA)))
	}
	if c.RecommendedStrand != "" {
		lines = append(lines, theme.Hint.Render("Recommended strand: ")+theme.Body.Render(c.RecommendedStrand))
	}
	return components.Card(strings.Join(lines, "\n"), cw)
}

func (s *SummaryScreen) renderAdvice(cw int) string {
	switch {
	case s.advising:
		return s.spinner.View() + " " + theme.Hint.Render("Asking the advisor...")
	case s.adviceErr != "":
		return theme.ErrorText.Render("Advisor unavailable: " + s.adviceErr)
	case s.advice == nil:
		return ""
	}

	a := s.advice
	var lines []string
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(a.Headline))
	lines = append(lines, "", theme.Body.Render(a.Summary))
	if len(a.NextSteps) > 0 {
		lines = append(lines, "", theme.Subtitle.Render("Next steps"))
		for _, step := range a.NextSteps {
			lines = append(lines, theme.Body.Render("• "+step))
		}
	}
	for _, c := range a.Caveats {
		lines = append(lines, theme.Hint.Render("! "+c))
	}
	return components.Card(strings.Join(lines, "\n"), cw)
}
