package assessment

import (
	"testing"
	"time"
)

func TestGate_AcquireRelease(t *testing.T) {
	g := NewGate()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	g.now = func() time.Time { return fixed }

	op, ok := g.Acquire(OpAnswer, 3)
	if !ok {
		t.Fatal("first Acquire should succeed")
	}
	if op.Kind != OpAnswer || op.Round != 3 || op.Phase != PhaseAwaiting {
		t.Errorf("op = %+v", op)
	}
	if !op.StartedAt.Equal(fixed) {
		t.Errorf("StartedAt = %v, want %v", op.StartedAt, fixed)
	}

	if _, ok := g.Acquire(OpPrevious, 3); ok {
		t.Error("second Acquire should be refused while held")
	}
	if !g.Busy() {
		t.Error("Busy = false while held")
	}

	g.Release(op)
	if g.Busy() {
		t.Error("Busy = true after release")
	}
	if _, ok := g.Acquire(OpFinish, 3); !ok {
		t.Error("Acquire after release should succeed")
	}
}

func TestGate_StaleReleaseIgnored(t *testing.T) {
	g := NewGate()
	old, _ := g.Acquire(OpAnswer, 1)
	g.Reset()

	current, ok := g.Acquire(OpAnswer, 1)
	if !ok {
		t.Fatal("Acquire after Reset should succeed")
	}

	g.Release(old)
	if !g.Busy() {
		t.Error("a stale release must not free the current operation")
	}
	g.Transition(old, "Creative")
	if p := g.Pending(); p.Phase != PhaseAwaiting {
		t.Errorf("Phase = %v, want awaiting", p.Phase)
	}

	g.Release(current)
	if g.Busy() {
		t.Error("Busy = true after releasing current op")
	}
	g.Release(nil)
}

func TestGate_TransitionAndPendingCopy(t *testing.T) {
	g := NewGate()
	if g.Pending() != nil {
		t.Fatal("Pending on open gate should be nil")
	}

	op, _ := g.Acquire(OpAnswer, 4)
	g.Transition(op, "Analytical")

	p := g.Pending()
	if p.Phase != PhaseTransition || p.TraitRecorded != "Analytical" {
		t.Errorf("Pending = %+v", p)
	}
	p.Phase = PhaseAwaiting
	if g.Pending().Phase != PhaseTransition {
		t.Error("mutating the copy changed the gate")
	}
}

func TestOpKind_String(t *testing.T) {
	tests := map[OpKind]string{
		OpStart:    "start",
		OpAnswer:   "answer",
		OpPrevious: "previous",
		OpFinish:   "finish",
		OpKind(42): "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("OpKind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
