package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillo/pulse/internal/bus"
	"github.com/skillo/pulse/internal/workflow"
)

// Dispatch describes one action execution for the journal.
type Dispatch struct {
	EventType string
	Action    workflow.ActionType
	Payload   bus.Payload
	Delay     time.Duration
	Err       error
}

// Recorder persists dispatch outcomes. Optional; implemented by the
// SQLite journal. Must be safe for concurrent use.
type Recorder interface {
	RecordDispatch(ctx context.Context, rec Dispatch) error
}

// Dispatcher schedules immediate or delayed execution of matched
// actions and is the failure boundary of the engine: any error from the
// action runner is caught and logged here, never propagated to the bus
// or the original publisher. Log and drop, no retry.
type Dispatcher struct {
	runner   ActionRunner
	clock    Clock
	recorder Recorder
	syncRun  bool

	mu      sync.Mutex
	pending map[string]map[string]Timer // owner id → timer token → timer
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithClock substitutes the timer source. Tests pass a fake clock to
// simulate the passage of delay hours.
func WithClock(c Clock) DispatcherOption {
	return func(d *Dispatcher) {
		d.clock = c
	}
}

// WithRecorder attaches a dispatch journal.
func WithRecorder(r Recorder) DispatcherOption {
	return func(d *Dispatcher) {
		d.recorder = r
	}
}

// WithSyncRun makes undelayed actions run on the publishing goroutine
// instead of their own. Only for deterministic scenario replay; the
// production default is asynchronous so publishers never block on
// action execution.
func WithSyncRun() DispatcherOption {
	return func(d *Dispatcher) {
		d.syncRun = true
	}
}

// NewDispatcher creates a dispatcher invoking the given action runner.
func NewDispatcher(runner ActionRunner, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		runner:  runner,
		clock:   NewClock(),
		pending: make(map[string]map[string]Timer),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch executes a matched rule's action for one event occurrence.
//
// A false condition or a rule without an action is a silent no-op. A
// delay node with positive hours schedules the action on a cancellable
// timer tracked under the owner id; otherwise the action runs
// immediately without blocking the caller. Never returns an error: all
// failures stop here.
func (d *Dispatcher) Dispatch(owner, eventType string, rule *Rule, payload bus.Payload, rc RunContext) {
	if rule == nil || rule.Action == nil || rule.Action.Action == nil {
		return
	}

	if rule.Condition != nil && !Evaluate(rule.Condition.Condition, payload) {
		slog.Debug("condition not met",
			"event_type", eventType,
			"condition", rule.Condition.Condition.ConditionType,
			"node", rule.Condition.ID,
		)
		return
	}

	action := rule.Action.Action.ActionType

	var delay time.Duration
	if rule.Delay != nil && rule.Delay.Delay != nil && rule.Delay.Delay.DelayHours > 0 {
		delay = time.Duration(rule.Delay.Delay.DelayHours * float64(time.Hour))
	}

	run := func() {
		d.runAction(eventType, action, payload, rc, delay)
	}

	if delay > 0 {
		token := uuid.NewString()
		timer := d.clock.AfterFunc(delay, func() {
			d.removePending(owner, token)
			run()
		})
		d.addPending(owner, token, timer)
		slog.Debug("action scheduled",
			"event_type", eventType,
			"action", action,
			"delay", delay,
			"owner", owner,
		)
		return
	}

	if d.syncRun {
		run()
		return
	}
	go run()
}

// runAction invokes the runner and absorbs its outcome.
func (d *Dispatcher) runAction(eventType string, action workflow.ActionType, payload bus.Payload, rc RunContext, delay time.Duration) {
	err := d.runner.Run(context.Background(), action, payload, rc)

	if d.recorder != nil {
		rec := Dispatch{
			EventType: eventType,
			Action:    action,
			Payload:   payload,
			Delay:     delay,
			Err:       err,
		}
		if recErr := d.recorder.RecordDispatch(context.Background(), rec); recErr != nil {
			slog.Error("journal write failed", "error", recErr, "action", action)
		}
	}

	if err != nil {
		// Failure boundary: logged with originating context, dropped.
		slog.Error("action failed",
			"error", err,
			"event_type", eventType,
			"action", action,
			"user", rc.UserID,
		)
		return
	}

	slog.Info("action executed",
		"event_type", eventType,
		"action", action,
		"delayed", delay > 0,
	)
}

// CancelPending stops every scheduled timer belonging to an owner and
// reports how many were cancelled. Called on workflow teardown so no
// timers leak past the registration's lifetime.
func (d *Dispatcher) CancelPending(owner string) int {
	d.mu.Lock()
	timers := d.pending[owner]
	delete(d.pending, owner)
	d.mu.Unlock()

	cancelled := 0
	for _, t := range timers {
		if t.Stop() {
			cancelled++
		}
	}
	return cancelled
}

// PendingCount returns the number of scheduled timers for an owner.
func (d *Dispatcher) PendingCount(owner string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending[owner])
}

func (d *Dispatcher) addPending(owner, token string, t Timer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending[owner] == nil {
		d.pending[owner] = make(map[string]Timer)
	}
	d.pending[owner][token] = t
}

func (d *Dispatcher) removePending(owner, token string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pending[owner], token)
	if len(d.pending[owner]) == 0 {
		delete(d.pending, owner)
	}
}
