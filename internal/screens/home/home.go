package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursematch/internal/router"
	"github.com/abhisek/coursematch/internal/screen"
	"github.com/abhisek/coursematch/internal/screens/history"
	"github.com/abhisek/coursematch/internal/screens/summary"
	"github.com/abhisek/coursematch/internal/selfupdate"
	"github.com/abhisek/coursematch/internal/store"
	"github.com/abhisek/coursematch/internal/ui/components"
)

// Config holds the home screen's collaborators. Any of them may be nil;
// the matching menu entry or note is then disabled.
type Config struct {
	UserID int64

	// NewAssessment builds a fresh assessment screen.
	NewAssessment func() screen.Screen

	Results store.ResultRepo
	Advisor summary.Explainer

	// CheckUpdate looks for a newer release in the background.
	CheckUpdate func(ctx context.Context) (*selfupdate.CheckResult, error)
}

type statsLoadedMsg struct {
	Count   int
	LastTop string
}

type updateCheckedMsg struct {
	Latest string
}

// HomeScreen is the main menu.
type HomeScreen struct {
	cfg        Config
	menu       components.Menu
	menuLabels []string

	pastCount    int
	lastTop      string
	updateLatest string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(cfg Config) *HomeScreen {
	menuLabels := []string{"START ASSESSMENT", "PAST RESULTS", "EXIT"}

	items := []components.MenuItem{
		{
			Label:    menuLabels[0],
			Disabled: cfg.UserID <= 0 || cfg.NewAssessment == nil,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: cfg.NewAssessment()}
				}
			},
		},
		{
			Label:    menuLabels[1],
			Disabled: cfg.Results == nil,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: history.New(cfg.Results, cfg.UserID, cfg.Advisor)}
				}
			},
		},
		{Label: menuLabels[2], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		cfg:        cfg,
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	var cmds []tea.Cmd
	if h.cfg.Results != nil && h.cfg.UserID > 0 {
		repo, userID := h.cfg.Results, h.cfg.UserID
		cmds = append(cmds, func() tea.Msg {
			list, err := repo.List(context.Background(), userID, 0)
			if err != nil || len(list) == 0 {
				return statsLoadedMsg{}
			}
			return statsLoadedMsg{Count: len(list), LastTop: list[0].TopCourse}
		})
	}
	if h.cfg.CheckUpdate != nil {
		check := h.cfg.CheckUpdate
		cmds = append(cmds, func() tea.Msg {
			res, err := check(context.Background())
			if err != nil || res == nil || !res.UpdateAvailable {
				return nil
			}
			return updateCheckedMsg{Latest: res.LatestVersion}
		})
	}
	return tea.Batch(cmds...)
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		h.pastCount = msg.Count
		h.lastTop = msg.LastTop
		return h, nil
	case updateCheckedMsg:
		h.updateLatest = msg.Latest
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 80

	cw := components.ContentWidth(width)

	var sections []string

	sections = append(sections, renderTitle(width, cw))
	sections = append(sections, renderStatsBar(h.cfg.UserID, h.pastCount, h.lastTop, cw, compact))

	if h.cfg.UserID <= 0 {
		sections = append(sections, renderNotice("⚠ Pass --user or set COURSEMATCH_USER_ID to start an assessment", cw))
	} else if h.cfg.Advisor == nil && !compact {
		sections = append(sections, renderNotice("Set an LLM API key to get advisor explanations (see coursematch --help)", cw))
	}

	if compact {
		sections = append(sections, components.Card(h.menu.View(), cw))
	} else {
		sections = append(sections, renderArcadeMenu(h.menuLabels, h.menu.Selected, cw, h.menu.DisabledSet()))
	}

	if h.updateLatest != "" {
		sections = append(sections, renderUpdateNote(h.updateLatest, cw))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
