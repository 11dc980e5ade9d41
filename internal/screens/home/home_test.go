package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursematch/internal/router"
	"github.com/abhisek/coursematch/internal/screen"
	"github.com/abhisek/coursematch/internal/screens/history"
	"github.com/abhisek/coursematch/internal/selfupdate"
	"github.com/abhisek/coursematch/internal/store"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "assessment" }
func (s *stubScreen) Title() string                           { return "Assessment" }

type mockResultRepo struct {
	stored []store.StoredResult
}

func (m *mockResultRepo) Save(context.Context, store.StoredResult) (int64, error) { return 0, nil }
func (m *mockResultRepo) Get(context.Context, int64) (*store.StoredResult, error) { return nil, nil }
func (m *mockResultRepo) List(context.Context, int64, int) ([]store.StoredResult, error) {
	return m.stored, nil
}

var enter = tea.KeyPressMsg{Code: tea.KeyEnter}

func TestHomeScreen_StartAssessment(t *testing.T) {
	built := 0
	h := New(Config{
		UserID: 7,
		NewAssessment: func() screen.Screen {
			built++
			return &stubScreen{}
		},
	})

	_, cmd := h.Update(enter)
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*stubScreen); !ok || built != 1 {
		t.Errorf("pushed %T, factory calls %d", push.Screen, built)
	}
}

func TestHomeScreen_NoUserDisablesStart(t *testing.T) {
	h := New(Config{
		NewAssessment: func() screen.Screen { return &stubScreen{} },
		Results:       &mockResultRepo{},
	})

	if h.menu.Selected != 1 {
		t.Errorf("selected = %d, want first enabled item (1)", h.menu.Selected)
	}
	if !strings.Contains(h.View(100, 40), "--user") {
		t.Error("expected a hint about configuring the user")
	}

	_, cmd := h.Update(enter)
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*history.HistoryScreen); !ok {
		t.Errorf("pushed %T, want history", push.Screen)
	}
}

func TestHomeScreen_Stats(t *testing.T) {
	repo := &mockResultRepo{stored: []store.StoredResult{{TopCourse: "BS Nursing"}, {TopCourse: "BS Biology"}}}
	h := New(Config{UserID: 7, Results: repo})

	msg := h.Init()()
	h.Update(msg)

	if h.pastCount != 2 || h.lastTop != "BS Nursing" {
		t.Errorf("stats = %d/%q", h.pastCount, h.lastTop)
	}
}

func TestHomeScreen_UpdateNote(t *testing.T) {
	h := New(Config{
		UserID: 7,
		CheckUpdate: func(context.Context) (*selfupdate.CheckResult, error) {
			return &selfupdate.CheckResult{UpdateAvailable: true, LatestVersion: "v1.4.0"}, nil
		},
	})

	h.Update(h.Init()())
	if !strings.Contains(h.View(100, 40), "v1.4.0") {
		t.Error("expected update note in view")
	}
}

func TestHomeScreen_ExitQuits(t *testing.T) {
	h := New(Config{UserID: 7, NewAssessment: func() screen.Screen { return &stubScreen{} }})

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := h.Update(enter)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}
