// Package llm wraps the language-model providers used to narrate assessment
// results. Every provider returns JSON validated against the request schema.
package llm

import (
	"context"
	"encoding/json"

	"github.com/abhisek/coursematch/internal/schema"
)

// Provider generates structured output from a prompt.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the output has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model this provider talks to.
	ModelID() string
}

// Request is a single-turn or short multi-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks the provider for JSON output and is used to
	// validate the reply.
	Schema *schema.Definition

	MaxTokens   int
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserMessage is shorthand for a single user turn.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Response holds the model output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// checkOutput validates content against s, if any, and turns a truncated
// reply into ErrMaxTokensExceeded.
func checkOutput(s *schema.Definition, content json.RawMessage, stopReason string) error {
	if s == nil {
		return nil
	}
	if err := schema.Validate(*s, content); err != nil {
		if stopReason == "max_tokens" {
			return &ErrMaxTokensExceeded{Content: content}
		}
		return &ErrInvalidResponse{Content: content, Err: err}
	}
	return nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are used as-is.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
