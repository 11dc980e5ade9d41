package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursematch/internal/advisor"
	"github.com/abhisek/coursematch/internal/results"
	"github.com/abhisek/coursematch/internal/router"
	"github.com/abhisek/coursematch/internal/store"
)

const sampleRecord = `{
	"session_id": "s1",
	"completed_at": "2026-03-01T10:00:00Z",
	"confidence": 82,
	"traits_discovered": 5,
	"courses": [
		{"name": "BS Computer Science", "description": "Software and theory", "score": 91,
		 "traits": [{"name": "Analytical", "count": 3}], "minimum_gwa": 85, "recommended_strand": "STEM"},
		{"name": "BS Fine Arts", "score": 64, "traits": [{"name": "Creative", "count": 2}]}
	]
}`

// mockResultRepo implements store.ResultRepo for testing.
type mockResultRepo struct {
	saved []store.StoredResult
	err   error
}

func (m *mockResultRepo) Save(_ context.Context, r store.StoredResult) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.saved = append(m.saved, r)
	return int64(len(m.saved)), nil
}

func (m *mockResultRepo) List(_ context.Context, _ int64, _ int) ([]store.StoredResult, error) {
	return m.saved, nil
}

func (m *mockResultRepo) Get(_ context.Context, id int64) (*store.StoredResult, error) {
	if id < 1 || int(id) > len(m.saved) {
		return nil, nil
	}
	return &m.saved[id-1], nil
}

type mockExplainer struct {
	advice *advisor.Advice
	err    error
	calls  int
}

func (m *mockExplainer) Explain(_ context.Context, _ *results.Record) (*advisor.Advice, error) {
	m.calls++
	return m.advice, m.err
}

func testRecord(t *testing.T) *results.Record {
	t.Helper()
	rec, err := results.Decode([]byte(sampleRecord))
	if err != nil {
		t.Fatalf("decode record: %v", err)
	}
	return rec
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// run executes cmd, expanding batches, and feeds every message back into s.
func run(s *SummaryScreen, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case savedMsg, adviceMsg:
			s.Update(msg)
		}
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testRecord(t), Options{})
	if s.Title() != "Your Matches" {
		t.Errorf("Title = %q, want %q", s.Title(), "Your Matches")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testRecord(t), Options{})
	view := s.View(100, 40)
	for _, want := range []string{"BS Computer Science", "BS Fine Arts", "Confidence 82%", "Analytical", "STEM"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_SavesOnce(t *testing.T) {
	repo := &mockResultRepo{}
	s := New(testRecord(t), Options{Repo: repo, UserID: 7})

	run(s, s.Init())

	if len(repo.saved) != 1 {
		t.Fatalf("saved = %d, want 1", len(repo.saved))
	}
	got := repo.saved[0]
	if got.UserID != 7 || got.SessionID != "s1" || got.TopCourse != "BS Computer Science" {
		t.Errorf("stored result = %+v", got)
	}
	if s.saveState != "saved" {
		t.Errorf("saveState = %q, want saved", s.saveState)
	}
}

func TestSummaryScreen_ReadOnlyDoesNotSave(t *testing.T) {
	s := New(testRecord(t), Options{})
	if cmd := s.Init(); cmd != nil {
		t.Error("read-only summary should not issue a save")
	}
}

func TestSummaryScreen_SaveFailureIsShown(t *testing.T) {
	repo := &mockResultRepo{err: errors.New("disk full")}
	s := New(testRecord(t), Options{Repo: repo, UserID: 7})

	run(s, s.Init())

	if !strings.Contains(s.View(100, 40), "disk full") {
		t.Error("expected save error in view")
	}
}

func TestSummaryScreen_Advisor(t *testing.T) {
	adv := &mockExplainer{advice: &advisor.Advice{
		Headline:  "Computer Science fits you",
		Summary:   "You like puzzles.",
		NextSteps: []string{"Try a coding course"},
	}}
	s := New(testRecord(t), Options{Advisor: adv})

	_, cmd := s.Update(keyPress('a'))
	if !s.advising {
		t.Error("expected advising state")
	}
	run(s, cmd)

	if adv.calls != 1 {
		t.Errorf("advisor calls = %d, want 1", adv.calls)
	}
	if !strings.Contains(s.View(100, 40), "Computer Science fits you") {
		t.Error("expected advice in view")
	}

	// Advice is requested once per screen.
	if _, cmd := s.Update(keyPress('a')); cmd != nil {
		t.Error("second request should be ignored")
	}
}

func TestSummaryScreen_AdvisorError(t *testing.T) {
	adv := &mockExplainer{err: errors.New("rate limited")}
	s := New(testRecord(t), Options{Advisor: adv})

	_, cmd := s.Update(keyPress('a'))
	run(s, cmd)

	if !strings.Contains(s.View(100, 40), "rate limited") {
		t.Error("expected advisor error in view")
	}
}

func TestSummaryScreen_NoAdvisorHint(t *testing.T) {
	s := New(testRecord(t), Options{})
	for _, h := range s.KeyHints() {
		if h.Key == "A" {
			t.Error("advisor hint shown without an advisor")
		}
	}
	if _, cmd := s.Update(keyPress('a')); cmd != nil {
		t.Error("advice key should do nothing without an advisor")
	}
}

func TestSummaryScreen_CourseSelection(t *testing.T) {
	s := New(testRecord(t), Options{})

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want to stay at 1", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}
}

func TestSummaryScreen_Navigation_Esc(t *testing.T) {
	s := New(testRecord(t), Options{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command on Esc")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
