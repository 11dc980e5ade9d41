// Package advisor turns a finished recommendation record into a short
// narrative written by a language model.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/coursematch/internal/llm"
	"github.com/abhisek/coursematch/internal/results"
)

// ErrNoCourses is returned for a record with nothing to explain.
var ErrNoCourses = errors.New("advisor: record has no courses")

// Advice is the model's explanation of a record.
type Advice struct {
	Headline  string   `json:"headline"`
	Summary   string   `json:"summary"`
	NextSteps []string `json:"next_steps"`
	Caveats   []string `json:"caveats"`
}

// Config tunes the request sent to the provider.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one Explain call including provider retries. Zero
	// means no limit beyond ctx.
	Timeout time.Duration
}

// DefaultConfig returns the settings used by the results screen.
func DefaultConfig() Config {
	return Config{MaxTokens: 1024, Temperature: 0.4}
}

// Advisor explains records with an llm.Provider.
type Advisor struct {
	provider llm.Provider
	cfg      Config
}

// New creates an Advisor.
func New(provider llm.Provider, cfg Config) *Advisor {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	return &Advisor{provider: provider, cfg: cfg}
}

// Explain asks the model to narrate rec. It blocks for the duration of the
// request.
func (a *Advisor) Explain(ctx context.Context, rec *results.Record) (*Advice, error) {
	if rec == nil || rec.Len() == 0 {
		return nil, ErrNoCourses
	}

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, "advisor")
	resp, err := a.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(buildUserMessage(rec)),
		Schema:      &AdviceSchema,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate advice: %w", err)
	}

	var out Advice
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse advice: %w", err)
	}
	return &out, nil
}
