package assessment

import (
	"github.com/abhisek/coursematch/internal/adaptive"
	"github.com/abhisek/coursematch/internal/results"
)

// Option is one selectable answer.
type Option struct {
	ID   string
	Text string
}

// Question is the prompt shown for the current round.
type Question struct {
	ID       string
	Prompt   string
	Category string
	Options  []Option
}

// Preview is one entry of the service's advisory top-courses list.
type Preview struct {
	Course string
	Score  float64
}

// Session holds the state of one assessment attempt. Values handed out by
// the Navigator are copies; mutating them has no effect on the session.
type Session struct {
	// ID is the session identifier issued by the service at start.
	ID string

	// UserID is the user the session was started for.
	UserID int64

	// CurrentRound is the 1-based round, exactly as reported by the service.
	CurrentRound int

	// MaxRounds and MinRounds bound the session. MinRounds gates early finish.
	MaxRounds int
	MinRounds int

	// Confidence is the service's 0–100 progress indicator.
	Confidence float64

	// CoursesRemaining and TraitsDiscovered are display-only counters.
	CoursesRemaining int
	TraitsDiscovered int

	// CanFinishEarly is true once the service allows finishing early.
	CanFinishEarly bool

	// Question is the question for CurrentRound (nil once complete).
	Question *Question

	// Preview is the latest top-courses preview.
	Preview []Preview

	// LastTrait is the trait the service recorded for the latest answer.
	LastTrait string

	// Complete is the terminal flag. No round operation is accepted after it.
	Complete bool

	// Result is the final record, set when Complete becomes true.
	Result *results.Record
}

// clone returns a copy that shares no mutable memory with s. Result is
// immutable and shared.
func (s *Session) clone() *Session {
	c := *s
	if s.Question != nil {
		q := *s.Question
		q.Options = append([]Option(nil), s.Question.Options...)
		c.Question = &q
	}
	if s.Preview != nil {
		c.Preview = append([]Preview(nil), s.Preview...)
	}
	return &c
}

func convertQuestion(q *adaptive.Question) *Question {
	if q == nil {
		return nil
	}
	out := &Question{
		ID:       string(q.ID),
		Prompt:   q.Text,
		Category: q.Category,
		Options:  make([]Option, 0, len(q.Options)),
	}
	for _, o := range q.Options {
		out.Options = append(out.Options, Option{ID: string(o.ID), Text: o.Text})
	}
	return out
}

func convertPreview(in []adaptive.CoursePreview) []Preview {
	if len(in) == 0 {
		return nil
	}
	out := make([]Preview, 0, len(in))
	for _, p := range in {
		out = append(out, Preview{Course: p.Name, Score: results.Normalize(p.Score)})
	}
	return out
}

// HasOption reports whether id is one of the current question's options.
func (q *Question) HasOption(id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}
