package adaptive

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an identifier the service may encode as either a JSON string or a
// JSON number. It is always held as its decimal/string form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Tally is a counter the service reports either as a number or as the
// collection being counted (array or object). Collections count their length.
type Tally int

func (t *Tally) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("decode tally: %w", err)
	}
	switch x := v.(type) {
	case nil:
		*t = 0
	case float64:
		*t = Tally(x)
	case []any:
		*t = Tally(len(x))
	case map[string]any:
		*t = Tally(len(x))
	default:
		return fmt.Errorf("decode tally: unsupported value %s", string(b))
	}
	return nil
}

// TallyOf returns a pointer to n as a Tally.
func TallyOf(n int) *Tally {
	t := Tally(n)
	return &t
}

// Int returns the count, or 0 when t is nil.
func (t *Tally) Int() int {
	if t == nil {
		return 0
	}
	return int(*t)
}

// Option is one selectable answer to a question.
type Option struct {
	ID   ID     `json:"option_id"`
	Text string `json:"option_text"`
}

// Question is the prompt for one round.
type Question struct {
	ID       ID       `json:"question_id"`
	Text     string   `json:"question_text"`
	Category string   `json:"category,omitempty"`
	Options  []Option `json:"options"`
}

// CoursePreview is an advisory entry of the top-courses preview.
type CoursePreview struct {
	Name  string          `json:"course_name"`
	Score json.RawMessage `json:"match_percentage,omitempty"`
}

// MatchedTrait is a trait the service attributes to a course. The service
// sends either a bare trait name or an object with a count.
type MatchedTrait struct {
	Name  string
	Count int
}

func (m *MatchedTrait) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode trait: %w", err)
		}
		*m = MatchedTrait{Name: s, Count: 1}
		return nil
	}
	var obj struct {
		Name  string `json:"name"`
		Trait string `json:"trait"`
		Count *int   `json:"count"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("decode trait: %w", err)
	}
	name := obj.Name
	if name == "" {
		name = obj.Trait
	}
	count := 1
	if obj.Count != nil {
		count = *obj.Count
	}
	*m = MatchedTrait{Name: name, Count: count}
	return nil
}

func (m MatchedTrait) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}{m.Name, m.Count})
}

// Recommendation is one ranked course in a completion payload. Score fields
// are kept raw: the service is inconsistent about which one it fills in and
// what type it uses.
type Recommendation struct {
	CourseName         string          `json:"course_name"`
	Description        string          `json:"description,omitempty"`
	CompatibilityScore json.RawMessage `json:"compatibility_score,omitempty"`
	MatchPercentage    json.RawMessage `json:"match_percentage,omitempty"`
	MatchScore         json.RawMessage `json:"match_score,omitempty"`
	Score              json.RawMessage `json:"score,omitempty"`
	MatchedTraits      []MatchedTrait  `json:"matched_traits,omitempty"`
	MinimumGWA         json.RawMessage `json:"minimum_gwa,omitempty"`
	RecommendedStrand  string          `json:"recommended_strand,omitempty"`
}

// Completion is the terminal payload shared by a completing answer and an
// early finish.
type Completion struct {
	TraitsDiscovered *Tally
	Confidence       *float64
	Recommendations  []Recommendation
}

type StartRequest struct {
	UserID       int64 `json:"user_id" validate:"gt=0"`
	MaxQuestions int   `json:"max_questions" validate:"gte=1,lte=100"`
}

type FirstQuestion struct {
	Question          *Question       `json:"question"`
	Round             int             `json:"round"`
	CoursesRemaining  *int            `json:"courses_remaining,omitempty"`
	Confidence        *float64        `json:"confidence,omitempty"`
	TopCoursesPreview []CoursePreview `json:"top_courses_preview,omitempty"`
}

type StartResponse struct {
	SessionID     ID             `json:"session_id"`
	MaxQuestions  int            `json:"max_questions"`
	MinQuestions  int            `json:"min_questions"`
	FirstQuestion *FirstQuestion `json:"first_question"`
}

type AnswerRequest struct {
	SessionID  ID `json:"session_id" validate:"required"`
	QuestionID ID `json:"question_id" validate:"required"`
	OptionID   ID `json:"option_id" validate:"required"`
}

type AnswerResponse struct {
	IsComplete bool `json:"is_complete"`

	// Non-terminal fields.
	TraitRecorded     string          `json:"trait_recorded,omitempty"`
	CurrentRound      int             `json:"current_round,omitempty"`
	CoursesRemaining  *int            `json:"courses_remaining,omitempty"`
	TopCoursesPreview []CoursePreview `json:"top_courses_preview,omitempty"`
	CanFinishEarly    bool            `json:"can_finish_early,omitempty"`
	NextQuestion      *Question       `json:"next_question,omitempty"`

	// Shared by both shapes.
	TraitsDiscovered *Tally   `json:"traits_discovered,omitempty"`
	Confidence       *float64 `json:"confidence,omitempty"`

	// Terminal fields.
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

// Completion returns the terminal part of the response.
func (r *AnswerResponse) Completion() Completion {
	return Completion{
		TraitsDiscovered: r.TraitsDiscovered,
		Confidence:       r.Confidence,
		Recommendations:  r.Recommendations,
	}
}

type PreviousRequest struct {
	SessionID ID `json:"session_id" validate:"required"`
}

type PreviousResponse struct {
	CurrentRound      int             `json:"current_round"`
	Confidence        *float64        `json:"confidence,omitempty"`
	TraitsDiscovered  *Tally          `json:"traits_discovered,omitempty"`
	CoursesRemaining  *int            `json:"courses_remaining,omitempty"`
	TopCoursesPreview []CoursePreview `json:"top_courses_preview,omitempty"`
	CanFinishEarly    *bool           `json:"can_finish_early,omitempty"`
	NextQuestion      *Question       `json:"next_question"`
}

type FinishRequest struct {
	SessionID ID `json:"session_id" validate:"required"`
}

type FinishResponse struct {
	// Success is nil when the service omits it; only an explicit false
	// is a failure.
	Success          *bool            `json:"success,omitempty"`
	TraitsDiscovered *Tally           `json:"traits_discovered,omitempty"`
	Confidence       *float64         `json:"confidence,omitempty"`
	Recommendations  []Recommendation `json:"recommendations"`
}

// Completion returns the terminal payload of the response.
func (r *FinishResponse) Completion() Completion {
	return Completion{
		TraitsDiscovered: r.TraitsDiscovered,
		Confidence:       r.Confidence,
		Recommendations:  r.Recommendations,
	}
}
