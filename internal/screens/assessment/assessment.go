// Package assessment is the screen that walks a student through an adaptive
// assessment, one question per round.
package assessment

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	asmt "github.com/abhisek/coursematch/internal/assessment"
	"github.com/abhisek/coursematch/internal/results"
	"github.com/abhisek/coursematch/internal/router"
	"github.com/abhisek/coursematch/internal/screen"
	"github.com/abhisek/coursematch/internal/ui/components"
	"github.com/abhisek/coursematch/internal/ui/layout"
	"github.com/abhisek/coursematch/internal/ui/theme"
)

// Config holds what the screen needs to run a session.
type Config struct {
	Navigator    *asmt.Navigator
	UserID       int64
	MaxQuestions int

	// ProfileURL is shown when the student must complete their profile
	// before starting.
	ProfileURL string

	// OnComplete builds the screen that replaces this one once the
	// session has a result.
	OnComplete func(rec *results.Record) screen.Screen
}

// AssessmentScreen implements screen.Screen for an active session.
type AssessmentScreen struct {
	cfg     Config
	spinner spinner.Model

	session *asmt.Session
	options components.OptionList

	busy        bool
	op          asmt.OpKind
	errMsg      string
	blocked     error // precondition failure, session cannot start
	confirmQuit bool
	done        bool
}

var _ screen.Screen = (*AssessmentScreen)(nil)
var _ screen.KeyHintProvider = (*AssessmentScreen)(nil)
var _ screen.Closer = (*AssessmentScreen)(nil)

// New creates an AssessmentScreen. The session starts on Init.
func New(cfg Config) *AssessmentScreen {
	return &AssessmentScreen{
		cfg: cfg,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
		),
	}
}

func (s *AssessmentScreen) Init() tea.Cmd {
	return s.begin(asmt.OpStart, s.startCmd())
}

func (s *AssessmentScreen) Title() string {
	return "Assessment"
}

// Close discards the session. A request in flight still runs to completion;
// its reply comes back as ErrDiscarded and is ignored.
func (s *AssessmentScreen) Close() {
	s.cfg.Navigator.Close()
}

func (s *AssessmentScreen) KeyHints() []layout.KeyHint {
	if s.blocked != nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.session == nil || s.busy {
		return []layout.KeyHint{{Key: "Esc", Description: "Quit"}}
	}
	hints := []layout.KeyHint{
		{Key: "1-9", Description: "Answer"},
		{Key: "↑↓", Description: "Navigate"},
	}
	if s.session.CurrentRound > 1 {
		hints = append(hints, layout.KeyHint{Key: "B", Description: "Previous"})
	}
	if s.session.CanFinishEarly {
		hints = append(hints, layout.KeyHint{Key: "F", Description: "Finish"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
}

func (s *AssessmentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case stepDoneMsg:
		return s.handleStep(msg)

	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *AssessmentScreen) handleStep(msg stepDoneMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		switch {
		case errors.Is(msg.Err, asmt.ErrPrecondition):
			s.blocked = msg.Err
		case errors.Is(msg.Err, context.Canceled), errors.Is(msg.Err, asmt.ErrDiscarded):
			// Screen is going away.
		default:
			// The session is unchanged; the student can retry.
			s.errMsg = msg.Err.Error()
		}
		s.options.Locked = false
		return s, nil
	}

	s.errMsg = ""
	s.session = msg.Session
	if s.session.Complete {
		return s, s.complete()
	}
	s.options = components.NewOptionList(optionTexts(s.session.Question))
	return s, nil
}

func (s *AssessmentScreen) complete() tea.Cmd {
	if s.done || s.cfg.OnComplete == nil {
		return nil
	}
	s.done = true
	next := s.cfg.OnComplete(s.session.Result)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *AssessmentScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.blocked != nil {
		if key == "esc" || key == "enter" {
			return s, popCmd
		}
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, popCmd
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		if s.session == nil && !s.busy {
			return s, popCmd
		}
		s.confirmQuit = true
		return s, nil
	}

	if s.session == nil {
		if key == "r" && !s.busy {
			s.errMsg = ""
			return s, s.begin(asmt.OpStart, s.startCmd())
		}
		return s, nil
	}

	// One operation at a time; input is ignored until it settles.
	if s.busy || s.session.Complete {
		return s, nil
	}

	switch key {
	case "b", "left":
		if s.session.CurrentRound > 1 {
			return s, s.begin(asmt.OpPrevious, s.previousCmd())
		}
		return s, nil
	case "f":
		if s.session.CanFinishEarly {
			return s, s.begin(asmt.OpFinish, s.finishCmd())
		}
		return s, nil
	}

	var chosen bool
	s.options, chosen = s.options.Update(msg)
	if chosen {
		q := s.session.Question
		if q == nil || s.options.Selected >= len(q.Options) {
			return s, nil
		}
		return s, s.begin(asmt.OpAnswer, s.answerCmd(q.ID, q.Options[s.options.Selected].ID))
	}
	return s, nil
}

// begin marks op in flight and starts the spinner.
func (s *AssessmentScreen) begin(op asmt.OpKind, cmd tea.Cmd) tea.Cmd {
	s.busy = true
	s.op = op
	s.errMsg = ""
	s.options.Locked = true
	return tea.Batch(cmd, s.spinner.Tick)
}

func (s *AssessmentScreen) startCmd() tea.Cmd {
	nav := s.cfg.Navigator
	userID, maxQuestions := s.cfg.UserID, s.cfg.MaxQuestions
	return func() tea.Msg {
		sess, err := nav.Start(requestCtx(), userID, maxQuestions)
		return stepDoneMsg{Op: asmt.OpStart, Session: sess, Err: err}
	}
}

func (s *AssessmentScreen) answerCmd(questionID, optionID string) tea.Cmd {
	nav := s.cfg.Navigator
	return func() tea.Msg {
		sess, err := nav.Answer(requestCtx(), questionID, optionID)
		return stepDoneMsg{Op: asmt.OpAnswer, Session: sess, Err: err}
	}
}

func (s *AssessmentScreen) previousCmd() tea.Cmd {
	nav := s.cfg.Navigator
	return func() tea.Msg {
		sess, err := nav.Previous(requestCtx())
		return stepDoneMsg{Op: asmt.OpPrevious, Session: sess, Err: err}
	}
}

func (s *AssessmentScreen) finishCmd() tea.Cmd {
	nav := s.cfg.Navigator
	return func() tea.Msg {
		sess, err := nav.Finish(requestCtx())
		return stepDoneMsg{Op: asmt.OpFinish, Session: sess, Err: err}
	}
}

// requestCtx is the context for service calls. Leaving the screen never
// aborts a request; the navigator drops replies for a closed session.
func requestCtx() context.Context { return context.Background() }

func popCmd() tea.Msg { return router.PopScreenMsg{} }

func optionTexts(q *asmt.Question) []string {
	if q == nil {
		return nil
	}
	out := make([]string, len(q.Options))
	for i, o := range q.Options {
		out[i] = o.Text
	}
	return out
}
