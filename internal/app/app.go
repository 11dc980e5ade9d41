// Package app wires the screens into the root Bubble Tea model.
package app

import (
	"context"
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursematch/internal/assessment"
	"github.com/abhisek/coursematch/internal/results"
	"github.com/abhisek/coursematch/internal/router"
	"github.com/abhisek/coursematch/internal/screen"
	assessmentscreen "github.com/abhisek/coursematch/internal/screens/assessment"
	"github.com/abhisek/coursematch/internal/screens/home"
	"github.com/abhisek/coursematch/internal/screens/summary"
	"github.com/abhisek/coursematch/internal/screens/welcome"
	"github.com/abhisek/coursematch/internal/selfupdate"
	"github.com/abhisek/coursematch/internal/store"
	"github.com/abhisek/coursematch/internal/ui/layout"
)

// Options holds the dependencies injected into the TUI.
type Options struct {
	Navigator    *assessment.Navigator
	Results      store.ResultRepo
	Advisor      summary.Explainer // nil disables advice
	UserID       int64
	MaxQuestions int
	ProfileURL   string

	// CheckUpdate is optional.
	CheckUpdate func(ctx context.Context) (*selfupdate.CheckResult, error)

	Logger *slog.Logger

	// SkipWelcome starts on the home screen.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	opts   Options
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	homeFactory := func() screen.Screen { return home.New(homeConfig(opts)) }

	var initial screen.Screen
	if opts.SkipWelcome {
		initial = homeFactory()
	} else {
		initial = welcome.New(homeFactory)
	}
	return AppModel{
		router: router.New(initial),
		opts:   opts,
	}
}

func homeConfig(opts Options) home.Config {
	cfg := home.Config{
		UserID:      opts.UserID,
		Results:     opts.Results,
		Advisor:     opts.Advisor,
		CheckUpdate: opts.CheckUpdate,
	}
	if opts.Navigator != nil {
		cfg.NewAssessment = func() screen.Screen {
			opts.Logger.Info("assessment opened", "user_id", opts.UserID)
			return assessmentscreen.New(assessmentscreen.Config{
				Navigator:    opts.Navigator,
				UserID:       opts.UserID,
				MaxQuestions: opts.MaxQuestions,
				ProfileURL:   opts.ProfileURL,
				OnComplete: func(rec *results.Record) screen.Screen {
					return summary.New(rec, summary.Options{
						Repo:    opts.Results,
						UserID:  opts.UserID,
						Advisor: opts.Advisor,
					})
				},
			})
		}
	}
	return cfg
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	status := ""
	if m.opts.UserID > 0 {
		status = fmt.Sprintf("User #%d", m.opts.UserID)
	}
	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(footerHints, p.KeyHints()...)
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits. Screens
// still on the stack are closed on the way out.
func Run(opts Options) error {
	m := newAppModel(opts)
	defer m.router.CloseAll()

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
