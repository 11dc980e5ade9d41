package store

import (
	"context"
	"time"
)

// ServiceRequestEventData captures one call to the remote assessment service.
type ServiceRequestEventData struct {
	Operation    string // start, answer, previous, finish, profile
	SessionID    string
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// SessionEventData captures one applied step of an assessment session.
type SessionEventData struct {
	SessionID  string
	UserID     int64
	Action     string // start, answer, previous, finish, complete, abandon
	Round      int
	QuestionID string
	OptionID   string
}

// SessionEvent is a stored SessionEventData with its ordering metadata.
type SessionEvent struct {
	SessionEventData
	Sequence  int64
	Timestamp time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendServiceRequest records an assessment service call.
	AppendServiceRequest(ctx context.Context, data ServiceRequestEventData) error

	// AppendSessionEvent records a session step.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// SessionEvents returns the events of one session in sequence order.
	SessionEvents(ctx context.Context, sessionID string) ([]SessionEvent, error)
}

// StoredResult is a completed assessment kept for the history view.
// Payload is the JSON encoding of the recommendation record.
type StoredResult struct {
	ID          int64
	SessionID   string
	UserID      int64
	CompletedAt time.Time
	TopCourse   string
	CourseCount int
	Payload     []byte
}

// ResultRepo persists completed assessment results.
type ResultRepo interface {
	// Save stores a result and returns its ID. Saving the same session
	// twice is an error.
	Save(ctx context.Context, r StoredResult) (int64, error)

	// List returns the user's results, newest first. limit <= 0 means all.
	List(ctx context.Context, userID int64, limit int) ([]StoredResult, error)

	// Get returns a single result, or nil if it does not exist.
	Get(ctx context.Context, id int64) (*StoredResult, error)
}
