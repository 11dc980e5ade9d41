package results

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/coursematch/internal/adaptive"
)

// TraitCount is a trait name with the number of times it was attributed.
type TraitCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Course is one ranked entry of a Record.
type Course struct {
	Rank              int          `json:"rank"`
	Name              string       `json:"name"`
	Description       string       `json:"description,omitempty"`
	Score             float64      `json:"score"`
	Traits            []TraitCount `json:"traits,omitempty"`
	MinimumGWA        *float64     `json:"minimum_gwa,omitempty"`
	RecommendedStrand string       `json:"recommended_strand,omitempty"`
}

// Record is the canonical outcome of a finished assessment. It is immutable:
// accessors return copies.
type Record struct {
	sessionID        string
	completedAt      time.Time
	confidence       *float64
	traitsDiscovered int
	courses          []Course
}

// SessionID returns the service session the record came from.
func (r *Record) SessionID() string { return r.sessionID }

// CompletedAt returns when the record was produced.
func (r *Record) CompletedAt() time.Time { return r.completedAt }

// Confidence returns the service-reported confidence, if any.
func (r *Record) Confidence() (float64, bool) {
	if r.confidence == nil {
		return 0, false
	}
	return *r.confidence, true
}

// TraitsDiscovered returns the service-reported trait count.
func (r *Record) TraitsDiscovered() int { return r.traitsDiscovered }

// Len returns the number of courses.
func (r *Record) Len() int { return len(r.courses) }

// Courses returns the ranked courses in service order.
func (r *Record) Courses() []Course {
	out := make([]Course, len(r.courses))
	for i, c := range r.courses {
		out[i] = copyCourse(c)
	}
	return out
}

// Course returns the i-th course (0-based).
func (r *Record) Course(i int) Course {
	return copyCourse(r.courses[i])
}

// Top returns the first ranked course, if any.
func (r *Record) Top() (Course, bool) {
	if len(r.courses) == 0 {
		return Course{}, false
	}
	return copyCourse(r.courses[0]), true
}

// TraitSummary merges the traits of all courses. Counts for the same name
// are summed. Ordered by count descending, then name.
func (r *Record) TraitSummary() []TraitCount {
	totals := make(map[string]int)
	for _, c := range r.courses {
		for _, t := range c.Traits {
			totals[t.Name] += t.Count
		}
	}
	return sortedCounts(totals)
}

func sortedCounts(totals map[string]int) []TraitCount {
	out := make([]TraitCount, 0, len(totals))
	for name, n := range totals {
		out = append(out, TraitCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func copyCourse(c Course) Course {
	if c.Traits != nil {
		c.Traits = append([]TraitCount(nil), c.Traits...)
	}
	if c.MinimumGWA != nil {
		v := *c.MinimumGWA
		c.MinimumGWA = &v
	}
	return c
}

// Aggregate normalizes a completion payload into a Record. Course order is
// the service's rank order.
func Aggregate(sessionID string, payload adaptive.Completion) *Record {
	return aggregateAt(sessionID, payload, time.Now())
}

func aggregateAt(sessionID string, payload adaptive.Completion, now time.Time) *Record {
	r := &Record{
		sessionID:        sessionID,
		completedAt:      now.UTC(),
		traitsDiscovered: payload.TraitsDiscovered.Int(),
		courses:          make([]Course, 0, len(payload.Recommendations)),
	}
	if payload.Confidence != nil {
		v := clamp(*payload.Confidence)
		r.confidence = &v
	}

	for i, rec := range payload.Recommendations {
		r.courses = append(r.courses, Course{
			Rank:              i + 1,
			Name:              rec.CourseName,
			Description:       rec.Description,
			Score:             ResolveScore(rec),
			Traits:            mergeTraits(rec.MatchedTraits),
			MinimumGWA:        parseGWA(rec.MinimumGWA),
			RecommendedStrand: rec.RecommendedStrand,
		})
	}
	return r
}

// mergeTraits folds repeated names within one course, keeping first-seen order.
func mergeTraits(traits []adaptive.MatchedTrait) []TraitCount {
	if len(traits) == 0 {
		return nil
	}
	index := make(map[string]int, len(traits))
	out := make([]TraitCount, 0, len(traits))
	for _, t := range traits {
		if t.Name == "" {
			continue
		}
		if i, ok := index[t.Name]; ok {
			out[i].Count += t.Count
			continue
		}
		index[t.Name] = len(out)
		out = append(out, TraitCount{Name: t.Name, Count: t.Count})
	}
	return out
}

type recordJSON struct {
	SessionID        string    `json:"session_id"`
	CompletedAt      time.Time `json:"completed_at"`
	Confidence       *float64  `json:"confidence,omitempty"`
	TraitsDiscovered int       `json:"traits_discovered"`
	Courses          []Course  `json:"courses"`
}

// MarshalJSON encodes the record for history storage.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		SessionID:        r.sessionID,
		CompletedAt:      r.completedAt,
		Confidence:       r.confidence,
		TraitsDiscovered: r.traitsDiscovered,
		Courses:          r.courses,
	})
}

// Decode restores a Record stored with MarshalJSON. Scores are normalized
// again so a hand-edited payload cannot smuggle in invalid values.
func Decode(data []byte) (*Record, error) {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	r := &Record{
		sessionID:        raw.SessionID,
		completedAt:      raw.CompletedAt,
		confidence:       raw.Confidence,
		traitsDiscovered: raw.TraitsDiscovered,
		courses:          raw.Courses,
	}
	for i := range r.courses {
		r.courses[i].Score = clamp(r.courses[i].Score)
		if r.courses[i].Rank == 0 {
			r.courses[i].Rank = i + 1
		}
	}
	return r, nil
}
