package history

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursematch/internal/router"
	"github.com/abhisek/coursematch/internal/screens/summary"
	"github.com/abhisek/coursematch/internal/store"
)

const payload = `{"session_id":"s1","completed_at":"2026-03-01T10:00:00Z","courses":[{"name":"BS Nursing","score":77}]}`

type mockResultRepo struct {
	stored []store.StoredResult
}

func (m *mockResultRepo) Save(_ context.Context, r store.StoredResult) (int64, error) {
	r.ID = int64(len(m.stored) + 1)
	m.stored = append(m.stored, r)
	return r.ID, nil
}

func (m *mockResultRepo) List(_ context.Context, userID int64, _ int) ([]store.StoredResult, error) {
	var out []store.StoredResult
	for _, r := range m.stored {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockResultRepo) Get(_ context.Context, id int64) (*store.StoredResult, error) {
	for _, r := range m.stored {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func testRepo() *mockResultRepo {
	repo := &mockResultRepo{}
	repo.Save(context.Background(), store.StoredResult{
		SessionID: "s1", UserID: 7, CompletedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		TopCourse: "BS Nursing", CourseCount: 1, Payload: []byte(payload),
	})
	repo.Save(context.Background(), store.StoredResult{
		SessionID: "s2", UserID: 8, TopCourse: "BS Accountancy", CourseCount: 3, Payload: []byte(payload),
	})
	return repo
}

func loaded(t *testing.T, repo store.ResultRepo, userID int64) *HistoryScreen {
	t.Helper()
	s := New(repo, userID, nil)
	s.Update(s.Init()())
	return s
}

func TestHistoryScreen_Title(t *testing.T) {
	s := New(testRepo(), 7, nil)
	if s.Title() != "Past Results" {
		t.Errorf("Title = %q", s.Title())
	}
}

func TestHistoryScreen_ListsOwnResults(t *testing.T) {
	s := loaded(t, testRepo(), 7)

	if len(s.results) != 1 {
		t.Fatalf("results = %d, want 1", len(s.results))
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "BS Nursing") {
		t.Error("expected own result in view")
	}
	if strings.Contains(view, "BS Accountancy") {
		t.Error("another user's result should not be listed")
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := loaded(t, testRepo(), 99)
	if !strings.Contains(s.View(100, 30), "No results yet") {
		t.Error("expected empty state")
	}
	if cmd := s.open(); cmd != nil {
		t.Error("open on an empty list should do nothing")
	}
}

func TestHistoryScreen_OpenPushesSummary(t *testing.T) {
	s := loaded(t, testRepo(), 7)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	_, cmd = s.Update(cmd())
	if cmd == nil {
		t.Fatalf("expected a push command, errMsg=%q", s.errMsg)
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	sum, ok := push.Screen.(*summary.SummaryScreen)
	if !ok {
		t.Fatalf("pushed %T, want *summary.SummaryScreen", push.Screen)
	}
	if sum.Init() != nil {
		t.Error("stored results are shown read-only and must not be saved again")
	}
}

func TestHistoryScreen_Esc(t *testing.T) {
	s := loaded(t, testRepo(), 7)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
