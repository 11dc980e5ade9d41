package assessment

import (
	"sync"
	"time"
)

// OpKind names a gated operation.
type OpKind int

const (
	OpStart OpKind = iota
	OpAnswer
	OpPrevious
	OpFinish
)

func (k OpKind) String() string {
	switch k {
	case OpStart:
		return "start"
	case OpAnswer:
		return "answer"
	case OpPrevious:
		return "previous"
	case OpFinish:
		return "finish"
	}
	return "unknown"
}

// Phase is how far a pending operation has progressed.
type Phase int

const (
	PhaseAwaiting   Phase = iota // Waiting for the service response
	PhaseTransition              // Response received, question swap pending
)

// PendingOperation marks an operation in flight. Its presence in the Gate
// blocks every other round-advancing operation.
type PendingOperation struct {
	Kind      OpKind
	Round     int
	Phase     Phase
	StartedAt time.Time

	// TraitRecorded is set during the transition phase of an answer.
	TraitRecorded string

	id uint64
}

// Gate admits at most one round-advancing operation at a time. A call made
// while the gate is held is refused, not queued.
type Gate struct {
	mu      sync.Mutex
	pending *PendingOperation
	nextID  uint64
	now     func() time.Time
}

// NewGate creates an open gate.
func NewGate() *Gate {
	return &Gate{now: time.Now}
}

// Acquire takes the gate for an operation. It returns false if another
// operation is pending.
func (g *Gate) Acquire(kind OpKind, round int) (*PendingOperation, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		return nil, false
	}
	g.nextID++
	op := &PendingOperation{
		Kind:      kind,
		Round:     round,
		Phase:     PhaseAwaiting,
		StartedAt: g.now(),
		id:        g.nextID,
	}
	g.pending = op
	return copyOp(op), true
}

// Transition moves op into the transition phase. Stale ops are ignored.
func (g *Gate) Transition(op *PendingOperation, trait string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if op == nil || g.pending == nil || g.pending.id != op.id {
		return
	}
	g.pending.Phase = PhaseTransition
	g.pending.TraitRecorded = trait
}

// Release opens the gate if op still holds it. Releasing a stale or nil op
// is a no-op, so a late release cannot free a newer operation.
func (g *Gate) Release(op *PendingOperation) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if op == nil || g.pending == nil || g.pending.id != op.id {
		return
	}
	g.pending = nil
}

// Reset drops any pending operation.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = nil
}

// Busy reports whether an operation is pending.
func (g *Gate) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending != nil
}

// Pending returns a copy of the pending operation, or nil.
func (g *Gate) Pending() *PendingOperation {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return nil
	}
	return copyOp(g.pending)
}

func copyOp(op *PendingOperation) *PendingOperation {
	c := *op
	return &c
}
