package assessment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/coursematch/internal/adaptive"
	"github.com/abhisek/coursematch/internal/results"
	"github.com/abhisek/coursematch/internal/store"
)

// DefaultTransitionDelay is how long a new question is held back after an
// answer is accepted.
const DefaultTransitionDelay = 600 * time.Millisecond

// Navigator drives an assessment session against the adaptive service. It
// is the only writer of the Session; callers read copies via Snapshot.
//
// Every round-advancing operation holds the Gate from before the request
// is sent until its effects are applied, including the transition delay
// that follows a non-terminal answer.
type Navigator struct {
	client    adaptive.Client
	gate      *Gate
	bootstrap *Bootstrap
	events    store.EventRepo
	logger    *slog.Logger
	delay     time.Duration
	wait      func(ctx context.Context, d time.Duration) error

	mu         sync.Mutex
	session    *Session
	generation uint64
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithBootstrap runs b before every Start.
func WithBootstrap(b *Bootstrap) NavigatorOption {
	return func(n *Navigator) { n.bootstrap = b }
}

// WithTransitionDelay sets the pause between an accepted answer and the
// question swap. Zero disables it.
func WithTransitionDelay(d time.Duration) NavigatorOption {
	return func(n *Navigator) { n.delay = d }
}

// WithEventRepo records applied session steps in repo.
func WithEventRepo(repo store.EventRepo) NavigatorOption {
	return func(n *Navigator) { n.events = repo }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) NavigatorOption {
	return func(n *Navigator) { n.logger = l }
}

// NewNavigator creates a Navigator with no active session.
func NewNavigator(client adaptive.Client, opts ...NavigatorOption) *Navigator {
	n := &Navigator{
		client: client,
		gate:   NewGate(),
		logger: slog.Default(),
		delay:  DefaultTransitionDelay,
		wait:   sleepContext,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Snapshot returns a copy of the current session, or nil.
func (n *Navigator) Snapshot() *Session {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.session == nil {
		return nil
	}
	return n.session.clone()
}

// Pending returns a copy of the operation in flight, or nil.
func (n *Navigator) Pending() *PendingOperation {
	return n.gate.Pending()
}

// Busy reports whether an operation is in flight.
func (n *Navigator) Busy() bool {
	return n.gate.Busy()
}

// Start opens a new session for userID, replacing any current one. On
// failure no session state is created.
func (n *Navigator) Start(ctx context.Context, userID int64, maxQuestions int) (*Session, error) {
	op, ok := n.gate.Acquire(OpStart, 0)
	if !ok {
		return nil, ErrBusy
	}
	defer n.gate.Release(op)

	// A Close while the request is in flight bumps the generation; the
	// reply must not bring the discarded session back.
	n.mu.Lock()
	gen := n.generation
	n.mu.Unlock()

	if n.bootstrap != nil {
		if err := n.bootstrap.Check(ctx, userID); err != nil {
			return nil, err
		}
	} else if userID <= 0 {
		return nil, ErrMissingUser
	}

	resp, err := n.client.Start(ctx, adaptive.StartRequest{UserID: userID, MaxQuestions: maxQuestions})
	if err != nil {
		return nil, err
	}
	if resp.SessionID == "" || resp.FirstQuestion == nil || resp.FirstQuestion.Question == nil {
		return nil, &adaptive.MalformedError{Op: "start", Err: fmt.Errorf("missing session id or first question")}
	}

	s := newSession(userID, maxQuestions, resp)

	n.mu.Lock()
	if n.generation != gen {
		n.mu.Unlock()
		n.logger.Debug("dropping start reply for discarded session", "session_id", s.ID)
		return nil, ErrDiscarded
	}
	if n.session != nil && !n.session.Complete {
		n.logger.Info("replacing unfinished session", "session_id", n.session.ID)
	}
	n.generation++
	n.session = s
	out := s.clone()
	n.mu.Unlock()

	n.logger.Debug("session started", "session_id", s.ID, "max_rounds", s.MaxRounds, "min_rounds", s.MinRounds)
	n.record(ctx, store.SessionEventData{
		SessionID:  s.ID,
		UserID:     userID,
		Action:     "start",
		Round:      s.CurrentRound,
		QuestionID: s.Question.ID,
	})
	return out, nil
}

func newSession(userID int64, maxQuestions int, resp *adaptive.StartResponse) *Session {
	first := resp.FirstQuestion
	s := &Session{
		ID:           string(resp.SessionID),
		UserID:       userID,
		CurrentRound: first.Round,
		MaxRounds:    resp.MaxQuestions,
		MinRounds:    resp.MinQuestions,
		Question:     convertQuestion(first.Question),
		Preview:      convertPreview(first.TopCoursesPreview),
	}
	if s.CurrentRound <= 0 {
		s.CurrentRound = 1
	}
	if s.MaxRounds <= 0 {
		s.MaxRounds = maxQuestions
	}
	if s.MinRounds <= 0 {
		s.MinRounds = s.MaxRounds / 2
	}
	if first.Confidence != nil {
		s.Confidence = *first.Confidence
	}
	if first.CoursesRemaining != nil {
		s.CoursesRemaining = *first.CoursesRemaining
	}
	s.CanFinishEarly = s.CurrentRound >= s.MinRounds && s.MinRounds > 0
	return s
}

// active validates that a round operation may run and returns the session
// generation it applies to.
func (n *Navigator) active() (*Session, uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.session == nil {
		return nil, 0, ErrNoSession
	}
	if n.session.Complete {
		return nil, 0, ErrSessionComplete
	}
	return n.session.clone(), n.generation, nil
}

// apply runs fn on the live session if it is still generation gen.
func (n *Navigator) apply(gen uint64, fn func(s *Session)) (*Session, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.session == nil || n.generation != gen {
		return nil, ErrDiscarded
	}
	fn(n.session)
	return n.session.clone(), nil
}

// Answer submits optionID for the current question. questionID must be the
// current question's ID. A non-terminal reply is applied after the
// transition delay; a terminal reply completes the session.
func (n *Navigator) Answer(ctx context.Context, questionID, optionID string) (*Session, error) {
	cur, gen, err := n.active()
	if err != nil {
		return nil, err
	}
	op, ok := n.gate.Acquire(OpAnswer, cur.CurrentRound)
	if !ok {
		return nil, ErrBusy
	}
	defer n.gate.Release(op)

	// Re-read under the gate: the previous operation may have just swapped
	// the question.
	cur, gen, err = n.active()
	if err != nil {
		return nil, err
	}
	if cur.Question == nil || cur.Question.ID != questionID {
		return nil, ErrStaleQuestion
	}
	if !cur.Question.HasOption(optionID) {
		return nil, ErrUnknownOption
	}

	resp, err := n.client.Answer(ctx, adaptive.AnswerRequest{
		SessionID:  adaptive.ID(cur.ID),
		QuestionID: adaptive.ID(questionID),
		OptionID:   adaptive.ID(optionID),
	})
	if err != nil {
		return nil, err
	}

	event := store.SessionEventData{
		SessionID:  cur.ID,
		UserID:     cur.UserID,
		Action:     "answer",
		Round:      cur.CurrentRound,
		QuestionID: questionID,
		OptionID:   optionID,
	}

	if resp.IsComplete {
		rec := results.Aggregate(cur.ID, resp.Completion())
		out, err := n.apply(gen, func(s *Session) { complete(s, rec, resp.Completion()) })
		if err != nil {
			return nil, err
		}
		n.record(ctx, event)
		n.record(ctx, store.SessionEventData{SessionID: cur.ID, UserID: cur.UserID, Action: "complete", Round: cur.CurrentRound})
		return out, nil
	}

	if resp.NextQuestion == nil || resp.CurrentRound <= 0 {
		return nil, &adaptive.MalformedError{Op: "answer", Err: fmt.Errorf("missing next question or round")}
	}

	n.gate.Transition(op, resp.TraitRecorded)
	if err := n.wait(ctx, n.delay); err != nil {
		// The service has already advanced; apply anyway so client and
		// service stay in step.
		n.logger.Debug("transition delay interrupted", "session_id", cur.ID, "error", err)
	}

	out, err := n.apply(gen, func(s *Session) {
		s.CurrentRound = resp.CurrentRound
		s.Question = convertQuestion(resp.NextQuestion)
		s.CanFinishEarly = resp.CanFinishEarly
		s.LastTrait = resp.TraitRecorded
		if resp.TraitsDiscovered != nil {
			s.TraitsDiscovered = resp.TraitsDiscovered.Int()
		}
		if resp.Confidence != nil {
			s.Confidence = *resp.Confidence
		}
		if resp.CoursesRemaining != nil {
			s.CoursesRemaining = *resp.CoursesRemaining
		}
		if resp.TopCoursesPreview != nil {
			s.Preview = convertPreview(resp.TopCoursesPreview)
		}
	})
	if err != nil {
		return nil, err
	}
	n.record(ctx, event)
	return out, nil
}

// Previous rewinds the session by one round. The round reported by the
// service is adopted as-is.
func (n *Navigator) Previous(ctx context.Context) (*Session, error) {
	cur, _, err := n.active()
	if err != nil {
		return nil, err
	}
	op, ok := n.gate.Acquire(OpPrevious, cur.CurrentRound)
	if !ok {
		return nil, ErrBusy
	}
	defer n.gate.Release(op)

	cur, gen, err := n.active()
	if err != nil {
		return nil, err
	}
	if cur.CurrentRound <= 1 {
		return nil, ErrAtFirstRound
	}

	resp, err := n.client.Previous(ctx, adaptive.PreviousRequest{SessionID: adaptive.ID(cur.ID)})
	if err != nil {
		return nil, err
	}
	if resp.NextQuestion == nil || resp.CurrentRound <= 0 {
		return nil, &adaptive.MalformedError{Op: "previous", Err: fmt.Errorf("missing question or round")}
	}

	out, err := n.apply(gen, func(s *Session) {
		s.CurrentRound = resp.CurrentRound
		s.Question = convertQuestion(resp.NextQuestion)
		if resp.TraitsDiscovered != nil {
			s.TraitsDiscovered = resp.TraitsDiscovered.Int()
		}
		s.LastTrait = ""
		if resp.Confidence != nil {
			s.Confidence = *resp.Confidence
		}
		if resp.CoursesRemaining != nil {
			s.CoursesRemaining = *resp.CoursesRemaining
		}
		if resp.TopCoursesPreview != nil {
			s.Preview = convertPreview(resp.TopCoursesPreview)
		}
		if resp.CanFinishEarly != nil {
			s.CanFinishEarly = *resp.CanFinishEarly
		} else {
			s.CanFinishEarly = s.CurrentRound >= s.MinRounds
		}
	})
	if err != nil {
		return nil, err
	}
	n.record(ctx, store.SessionEventData{
		SessionID:  cur.ID,
		UserID:     cur.UserID,
		Action:     "previous",
		Round:      out.CurrentRound,
		QuestionID: out.Question.ID,
	})
	return out, nil
}

// Finish ends the session early. It is only allowed once CanFinishEarly is
// set.
func (n *Navigator) Finish(ctx context.Context) (*Session, error) {
	cur, _, err := n.active()
	if err != nil {
		return nil, err
	}
	op, ok := n.gate.Acquire(OpFinish, cur.CurrentRound)
	if !ok {
		return nil, ErrBusy
	}
	defer n.gate.Release(op)

	cur, gen, err := n.active()
	if err != nil {
		return nil, err
	}
	if !cur.CanFinishEarly {
		return nil, ErrFinishNotAllowed
	}

	resp, err := n.client.Finish(ctx, adaptive.FinishRequest{SessionID: adaptive.ID(cur.ID)})
	if err != nil {
		return nil, err
	}
	if resp.Success != nil && !*resp.Success {
		return nil, &adaptive.ServiceError{Op: "finish", Message: "the assessment service could not finish the session"}
	}

	rec := results.Aggregate(cur.ID, resp.Completion())
	out, err := n.apply(gen, func(s *Session) { complete(s, rec, resp.Completion()) })
	if err != nil {
		return nil, err
	}
	n.record(ctx, store.SessionEventData{SessionID: cur.ID, UserID: cur.UserID, Action: "finish", Round: cur.CurrentRound})
	n.record(ctx, store.SessionEventData{SessionID: cur.ID, UserID: cur.UserID, Action: "complete", Round: cur.CurrentRound})
	return out, nil
}

func complete(s *Session, rec *results.Record, c adaptive.Completion) {
	s.Complete = true
	s.Result = rec
	s.Question = nil
	s.CanFinishEarly = false
	s.LastTrait = ""
	if c.TraitsDiscovered != nil {
		s.TraitsDiscovered = c.TraitsDiscovered.Int()
	}
	if c.Confidence != nil {
		s.Confidence = *c.Confidence
	}
}

// Close discards the current session. A response still in flight is
// dropped when it arrives.
func (n *Navigator) Close() {
	n.mu.Lock()
	s := n.session
	n.session = nil
	n.generation++
	n.mu.Unlock()

	n.gate.Reset()

	if s != nil && !s.Complete {
		n.record(context.Background(), store.SessionEventData{
			SessionID: s.ID,
			UserID:    s.UserID,
			Action:    "abandon",
			Round:     s.CurrentRound,
		})
	}
}

// record appends a session event. Failures are logged, never returned.
func (n *Navigator) record(ctx context.Context, data store.SessionEventData) {
	if n.events == nil {
		return
	}
	if err := n.events.AppendSessionEvent(context.WithoutCancel(ctx), data); err != nil {
		n.logger.Warn("failed to record session event", "action", data.Action, "session_id", data.SessionID, "error", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
