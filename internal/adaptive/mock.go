package adaptive

import (
	"context"
	"fmt"
	"sync"
)

// MockReply is a canned reply for the MockClient. Exactly one of the
// response fields, or Err, should be set.
type MockReply struct {
	Start    *StartResponse
	Answer   *AnswerResponse
	Previous *PreviousResponse
	Finish   *FinishResponse
	Err      error
}

// MockCall records one request made to the MockClient.
type MockCall struct {
	Op      string
	Request any
}

// MockClient is a deterministic Client for testing. It returns canned
// replies in FIFO order and records all requests.
type MockClient struct {
	mu      sync.Mutex
	replies []MockReply
	Calls   []MockCall

	// Hold, when set, makes every call block until a value is received
	// from it (or the context ends). Used to keep a request in flight.
	Hold chan struct{}
}

// NewMockClient creates a MockClient with the given canned replies.
func NewMockClient(replies ...MockReply) *MockClient {
	return &MockClient{replies: replies}
}

// AddReply appends a canned reply to the queue.
func (m *MockClient) AddReply(r MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, r)
}

// CallCount returns the number of requests made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// CallsFor returns the number of requests made for op.
func (m *MockClient) CallsFor(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (m *MockClient) next(ctx context.Context, op string, req any) (MockReply, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Op: op, Request: req})
	hold := m.Hold
	m.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return MockReply{}, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.replies) == 0 {
		return MockReply{}, &TransportError{Op: op, Err: fmt.Errorf("mock: no reply queued")}
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	if r.Err != nil {
		return MockReply{}, r.Err
	}
	return r, nil
}

func (m *MockClient) Start(ctx context.Context, req StartRequest) (*StartResponse, error) {
	r, err := m.next(ctx, "start", req)
	if err != nil {
		return nil, err
	}
	if r.Start == nil {
		return nil, &MalformedError{Op: "start", Err: fmt.Errorf("mock: queued reply is not a start response")}
	}
	return r.Start, nil
}

func (m *MockClient) Answer(ctx context.Context, req AnswerRequest) (*AnswerResponse, error) {
	r, err := m.next(ctx, "answer", req)
	if err != nil {
		return nil, err
	}
	if r.Answer == nil {
		return nil, &MalformedError{Op: "answer", Err: fmt.Errorf("mock: queued reply is not an answer response")}
	}
	return r.Answer, nil
}

func (m *MockClient) Previous(ctx context.Context, req PreviousRequest) (*PreviousResponse, error) {
	r, err := m.next(ctx, "previous", req)
	if err != nil {
		return nil, err
	}
	if r.Previous == nil {
		return nil, &MalformedError{Op: "previous", Err: fmt.Errorf("mock: queued reply is not a previous response")}
	}
	return r.Previous, nil
}

func (m *MockClient) Finish(ctx context.Context, req FinishRequest) (*FinishResponse, error) {
	r, err := m.next(ctx, "finish", req)
	if err != nil {
		return nil, err
	}
	if r.Finish == nil {
		return nil, &MalformedError{Op: "finish", Err: fmt.Errorf("mock: queued reply is not a finish response")}
	}
	return r.Finish, nil
}
