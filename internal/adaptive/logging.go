package adaptive

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/coursematch/internal/store"
)

// LoggingClient is a decorator that records every service call as an event
// and logs it.
type LoggingClient struct {
	inner     Client
	eventRepo store.EventRepo
	logger    *slog.Logger
}

// WithLogging wraps a Client with event logging. repo may be nil.
func WithLogging(c Client, repo store.EventRepo, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingClient{inner: c, eventRepo: repo, logger: logger}
}

func (l *LoggingClient) Start(ctx context.Context, req StartRequest) (*StartResponse, error) {
	start := time.Now()
	resp, err := l.inner.Start(ctx, req)
	sessionID := ""
	if resp != nil {
		sessionID = string(resp.SessionID)
	}
	l.record(ctx, "start", sessionID, start, err)
	return resp, err
}

func (l *LoggingClient) Answer(ctx context.Context, req AnswerRequest) (*AnswerResponse, error) {
	start := time.Now()
	resp, err := l.inner.Answer(ctx, req)
	l.record(ctx, "answer", string(req.SessionID), start, err)
	return resp, err
}

func (l *LoggingClient) Previous(ctx context.Context, req PreviousRequest) (*PreviousResponse, error) {
	start := time.Now()
	resp, err := l.inner.Previous(ctx, req)
	l.record(ctx, "previous", string(req.SessionID), start, err)
	return resp, err
}

func (l *LoggingClient) Finish(ctx context.Context, req FinishRequest) (*FinishResponse, error) {
	start := time.Now()
	resp, err := l.inner.Finish(ctx, req)
	l.record(ctx, "finish", string(req.SessionID), start, err)
	return resp, err
}

func (l *LoggingClient) record(ctx context.Context, op, sessionID string, start time.Time, err error) {
	latency := time.Since(start).Milliseconds()

	data := store.ServiceRequestEventData{
		Operation: op,
		SessionID: sessionID,
		LatencyMs: latency,
		Success:   err == nil,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.logger.Warn("assessment request failed", "op", op, "session_id", sessionID, "latency_ms", latency, "error", err)
	} else {
		l.logger.Debug("assessment request", "op", op, "session_id", sessionID, "latency_ms", latency)
	}

	if l.eventRepo == nil {
		return
	}
	// Don't fail the request if logging fails.
	if logErr := l.eventRepo.AppendServiceRequest(ctx, data); logErr != nil {
		l.logger.Warn("failed to record service request event", "op", op, "error", logErr)
	}
}
