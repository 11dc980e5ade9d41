package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"testing"

	"github.com/abhisek/coursematch/internal/schema"
	"github.com/abhisek/coursematch/internal/store"
)

var testSchema = schema.Definition{
	Name: "llm-test-narrative",
	Body: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{"type": "string"},
			"summary":  map[string]any{"type": "string"},
		},
		"required":             []string{"headline", "summary"},
		"additionalProperties": false,
	},
}

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp, err := mock.Generate(context.Background(), Request{Messages: UserMessage("first")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"a":1}` || resp.Usage.InputTokens != 10 {
		t.Fatalf("unexpected first response: %+v", resp)
	}

	resp, err = mock.Generate(context.Background(), Request{Messages: UserMessage("second")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp.Content)
	}
	if mock.CallCount() != 2 || mock.Calls[1].Messages[0].Content != "second" {
		t.Fatalf("calls not recorded: %+v", mock.Calls)
	}
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"headline":"only"}`)})
	_, err := mock.Generate(context.Background(), Request{Schema: &testSchema})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "" {
		t.Fatalf("expected empty purpose, got %q", p)
	}
	if p := PurposeFrom(WithPurpose(ctx, "advisor")); p != "advisor" {
		t.Fatalf("expected 'advisor', got %q", p)
	}
}

func TestClassifyStatus(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusUnauthorized, "*llm.ErrAuth"},
		{http.StatusForbidden, "*llm.ErrAuth"},
		{http.StatusTooManyRequests, "*llm.ErrRateLimit"},
		{http.StatusServiceUnavailable, "*llm.ErrProviderUnavailable"},
		{http.StatusBadRequest, "*llm.ErrProviderUnavailable"},
	}
	for _, tt := range tests {
		err := classifyStatus(tt.status, base)
		if got := fmt.Sprintf("%T", err); got != tt.want {
			t.Errorf("classifyStatus(%d) = %s, want %s", tt.status, got, tt.want)
		}
		if !errors.Is(err, base) {
			t.Errorf("classifyStatus(%d) does not wrap the cause", tt.status)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "g"}}, false},
		{"openrouter without key", Config{Provider: "openrouter"}, true},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
		{"no provider", Config{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromMap(t *testing.T) {
	cfg, err := ConfigFromMap(map[string]string{
		"COURSEMATCH_LLM_PROVIDER":           "openai",
		"COURSEMATCH_OPENAI_API_KEY":         "sk-test",
		"COURSEMATCH_LLM_RETRY_MAX_ATTEMPTS": "5",
		"COURSEMATCH_LLM_TIMEOUT":            "5s",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-test" {
		t.Fatalf("provider settings not read: %+v", cfg)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %q", cfg.OpenAI.Model)
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Timeout.String() != "5s" {
		t.Fatalf("retry or timeout not read: %+v", cfg)
	}

	def := DefaultConfig()
	if def.Provider != "" || def.Retry.MaxAttempts != 3 || def.Anthropic.Model != "claude-haiku" {
		t.Fatalf("unexpected defaults: %+v", def)
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, ok := DiscoverConfig(DefaultConfig()); ok {
		t.Fatal("expected no provider")
	}

	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("OPENAI_API_KEY", "o")
	cfg, ok := DiscoverConfig(DefaultConfig())
	if !ok || cfg.Provider != "openai" || cfg.OpenAI.APIKey != "o" {
		t.Fatalf("expected openai to win, got %+v", cfg)
	}

	explicit := DefaultConfig()
	explicit.Provider = "mock"
	if cfg, _ := DiscoverConfig(explicit); cfg.Provider != "mock" {
		t.Fatalf("explicit provider overridden: %q", cfg.Provider)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected mock, got %q", p.ModelID())
	}
	if _, err := NewProvider(context.Background(), Config{Provider: "openai"}, nil, nil); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	s, err := store.Open("file:llm_logging?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`), Usage: Usage{InputTokens: 12, OutputTokens: 3}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("slow down")}},
	)
	p := WithLogging(mock, "mock", s.EventRepo(), nil)
	ctx := WithPurpose(context.Background(), "advisor")

	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error")
	}

	var total, failed int
	row := s.DB().QueryRow(`SELECT COUNT(*), SUM(CASE WHEN success THEN 0 ELSE 1 END) FROM llm_requests WHERE purpose = 'advisor'`)
	if err := row.Scan(&total, &failed); err != nil {
		t.Fatalf("query: %v", err)
	}
	if total != 2 || failed != 1 {
		t.Fatalf("expected 2 events with 1 failure, got %d/%d", total, failed)
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil {
		t.Fatal("expected pricing for gpt-4o-mini")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("expected 0.75, got %v", got)
	}
	if LookupCost("mock") != nil {
		t.Fatal("expected no pricing for mock")
	}
}
