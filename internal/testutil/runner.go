// Package testutil provides test doubles for the engine, most notably
// a recording action runner. The simulated clock lives in the engine
// package (engine.ManualClock) because scenario replay uses it too.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/skillo/pulse/internal/bus"
	"github.com/skillo/pulse/internal/engine"
	"github.com/skillo/pulse/internal/workflow"
)

// RecordedRun is one captured action invocation.
type RecordedRun struct {
	Action  workflow.ActionType
	Payload bus.Payload
	Context engine.RunContext
}

// RecordingRunner is an ActionRunner test double that captures every
// invocation. Immediate dispatch happens on its own goroutine, so tests
// use WaitForRuns to synchronize before asserting.
type RecordingRunner struct {
	mu     sync.Mutex
	runs   []RecordedRun
	err    error
	signal chan struct{}
}

// NewRecordingRunner creates an empty recording runner.
func NewRecordingRunner() *RecordingRunner {
	return &RecordingRunner{signal: make(chan struct{}, 64)}
}

// FailWith makes every subsequent Run return err. The invocation is
// still recorded.
func (r *RecordingRunner) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Run implements engine.ActionRunner.
func (r *RecordingRunner) Run(_ context.Context, action workflow.ActionType, payload bus.Payload, rc engine.RunContext) error {
	r.mu.Lock()
	r.runs = append(r.runs, RecordedRun{Action: action, Payload: payload, Context: rc})
	err := r.err
	r.mu.Unlock()

	select {
	case r.signal <- struct{}{}:
	default:
	}
	return err
}

// Runs returns a copy of the captured invocations in execution order.
func (r *RecordingRunner) Runs() []RecordedRun {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedRun, len(r.runs))
	copy(out, r.runs)
	return out
}

// Len returns the number of captured invocations.
func (r *RecordingRunner) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}

// WaitForRuns blocks until at least n invocations have been captured or
// the timeout elapses, failing the test on timeout. Use after publishing
// an event whose action runs asynchronously.
func (r *RecordingRunner) WaitForRuns(t *testing.T, n int, timeout time.Duration) {
	t.Helper()

	deadline := time.After(timeout)
	for {
		if r.Len() >= n {
			return
		}
		select {
		case <-r.signal:
		case <-deadline:
			t.Fatalf("timed out waiting for %d action runs, got %d", n, r.Len())
		}
	}
}

// AssertNoRuns fails the test if any invocation arrives within the
// given window. Used for no-op paths (no match, condition false,
// pending delay).
func (r *RecordingRunner) AssertNoRuns(t *testing.T, window time.Duration) {
	t.Helper()

	select {
	case <-r.signal:
		t.Fatalf("expected zero action runs, got %d", r.Len())
	case <-time.After(window):
	}
	if n := r.Len(); n != 0 {
		t.Fatalf("expected zero action runs, got %d", n)
	}
}
