package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/coursematch/internal/store"
)

type purposeKey struct{}

// WithPurpose tags ctx with what an LLM request is for, e.g. "advisor".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the purpose set by WithPurpose, or "".
func PurposeFrom(ctx context.Context) string {
	p, _ := ctx.Value(purposeKey{}).(string)
	return p
}

// LoggingProvider is a decorator that records every request as an event
// and logs it. Prompts and replies are not stored.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
	logger    *slog.Logger
}

// WithLogging wraps p with event logging. repo may be nil.
func WithLogging(p Provider, provider string, repo store.EventRepo, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{inner: p, provider: provider, eventRepo: repo, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	attrs := []any{
		"provider", data.Provider,
		"purpose", data.Purpose,
		"latency_ms", data.LatencyMs,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		attrs = append(attrs, "input_tokens", data.InputTokens, "output_tokens", data.OutputTokens)
		if cost := LookupCost(data.Model); cost != nil {
			attrs = append(attrs, "cost_usd", cost.Cost(data.InputTokens, data.OutputTokens))
		}
	}
	attrs = append(attrs, "model", data.Model)

	if err != nil {
		data.ErrorMessage = err.Error()
		l.logger.Warn("llm request failed", append(attrs, "error", err)...)
	} else {
		l.logger.Debug("llm request", attrs...)
	}

	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
			l.logger.Warn("record llm request event", "error", logErr)
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
