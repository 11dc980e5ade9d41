package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursematch/internal/results"
	"github.com/abhisek/coursematch/internal/router"
	"github.com/abhisek/coursematch/internal/screen"
	"github.com/abhisek/coursematch/internal/screens/summary"
	"github.com/abhisek/coursematch/internal/store"
	"github.com/abhisek/coursematch/internal/ui/layout"
	"github.com/abhisek/coursematch/internal/ui/theme"
)

// listLimit caps how many past results are shown.
const listLimit = 50

type historyLoadedMsg struct {
	Results []store.StoredResult
	Err     error
}

type recordLoadedMsg struct {
	Record *results.Record
	Err    error
}

// HistoryScreen lists a user's past assessment results.
type HistoryScreen struct {
	repo     store.ResultRepo
	userID   int64
	advisor  summary.Explainer
	results  []store.StoredResult
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. adv may be nil.
func New(repo store.ResultRepo, userID int64, adv summary.Explainer) *HistoryScreen {
	return &HistoryScreen{
		repo:    repo,
		userID:  userID,
		advisor: adv,
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, userID := s.repo, s.userID
	return func() tea.Msg {
		list, err := repo.List(context.Background(), userID, listLimit)
		return historyLoadedMsg{Results: list, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Past Results"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.results = msg.Results
		}
		s.loaded = true
		return s, nil

	case recordLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		if msg.Record == nil {
			s.errMsg = "result no longer exists"
			return s, nil
		}
		next := summary.New(msg.Record, summary.Options{Advisor: s.advisor})
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			return s, s.open()
		}
	}
	return s, nil
}

func (s *HistoryScreen) open() tea.Cmd {
	if s.selected >= len(s.results) {
		return nil
	}
	s.errMsg = ""
	repo, id := s.repo, s.results[s.selected].ID
	return func() tea.Msg {
		rec, err := results.Load(context.Background(), repo, id)
		return recordLoadedMsg{Record: rec, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if s.errMsg != "" && len(s.results) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if len(s.results) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No results yet. Take the assessment to see your matches!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, r := range s.results {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		top := r.TopCourse
		if top == "" {
			top = "no recommendation"
		}
		line := fmt.Sprintf("%s%s  %-36s  %d courses",
			prefix, r.CompletedAt.Local().Format("Jan 02, 2006"), top, r.CourseCount)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.ErrorText.Render(s.errMsg)))
	}

	return b.String()
}
