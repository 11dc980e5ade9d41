package adaptive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/coursematch/internal/schema"
)

// Client is the wire contract of the remote adaptive assessment service.
type Client interface {
	// Start opens a new session and returns the first question.
	Start(ctx context.Context, req StartRequest) (*StartResponse, error)

	// Answer submits the chosen option for the current question.
	Answer(ctx context.Context, req AnswerRequest) (*AnswerResponse, error)

	// Previous rewinds the session by one round.
	Previous(ctx context.Context, req PreviousRequest) (*PreviousResponse, error)

	// Finish ends the session early and returns the recommendations.
	Finish(ctx context.Context, req FinishRequest) (*FinishResponse, error)
}

// Service paths, relative to the base URL.
const (
	PathStart    = "/api/assessment/start"
	PathAnswer   = "/api/assessment/answer"
	PathPrevious = "/api/assessment/previous"
	PathFinish   = "/api/assessment/finish"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) { h.http = c }
}

// WithTimeout sets the per-request timeout. The timeout applies to a copy,
// so a client passed to WithHTTPClient (or http.DefaultClient) is untouched.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTPClient) {
		c := http.Client{}
		if h.http != nil {
			c = *h.http
		}
		c.Timeout = d
		h.http = &c
	}
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 15 * time.Second},
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) Start(ctx context.Context, req StartRequest) (*StartResponse, error) {
	var out StartResponse
	if err := c.post(ctx, "start", PathStart, req, startSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Answer(ctx context.Context, req AnswerRequest) (*AnswerResponse, error) {
	var out AnswerResponse
	if err := c.post(ctx, "answer", PathAnswer, req, answerSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Previous(ctx context.Context, req PreviousRequest) (*PreviousResponse, error) {
	var out PreviousResponse
	if err := c.post(ctx, "previous", PathPrevious, req, previousSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Finish(ctx context.Context, req FinishRequest) (*FinishResponse, error) {
	var out FinishResponse
	if err := c.post(ctx, "finish", PathFinish, req, finishSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// envelope holds the status fields any response may carry.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e envelope) message() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// post sends req to path and decodes a validated response into out.
func (c *HTTPClient) post(ctx context.Context, op, path string, req any, def schema.Definition, out any) error {
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid %s request: %w", op, err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	var env envelope
	envErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Message: env.message()}
	}
	if envErr != nil {
		return &MalformedError{Op: op, Body: body, Err: fmt.Errorf("invalid JSON: %w", envErr)}
	}
	if env.Success != nil && !*env.Success {
		msg := env.message()
		if msg == "" {
			msg = fmt.Sprintf("the assessment service could not complete %q", op)
		}
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}

	if err := schema.Validate(def, body); err != nil {
		return &MalformedError{Op: op, Body: body, Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &MalformedError{Op: op, Body: body, Err: err}
	}
	return nil
}
