package engine

import (
	"context"
	"fmt"

	"github.com/skillo/pulse/internal/bus"
	"github.com/skillo/pulse/internal/workflow"
)

// RunContext carries per-dispatch caller identity to the action runner.
type RunContext struct {
	UserID string
}

// ActionRunner executes the concrete side effect named by an action
// node. Implementations live outside the core (insights services,
// publishing clients); the engine only observes the returned error for
// logging. Implementations must be safe for concurrent use: two
// in-flight actions run independently with no mutual exclusion.
type ActionRunner interface {
	Run(ctx context.Context, action workflow.ActionType, payload bus.Payload, rc RunContext) error
}

// RunnerFunc is one action handler.
type RunnerFunc func(ctx context.Context, payload bus.Payload, rc RunContext) error

// RunnerMap is a static ActionType → handler table implementing
// ActionRunner. Built at construction and injected into the dispatcher,
// which keeps action dispatch substitutable with test doubles.
type RunnerMap map[workflow.ActionType]RunnerFunc

// Run dispatches to the handler registered for the action type.
func (m RunnerMap) Run(ctx context.Context, action workflow.ActionType, payload bus.Payload, rc RunContext) error {
	h, ok := m[action]
	if !ok {
		return &UnknownActionError{Action: action}
	}
	return h(ctx, payload, rc)
}

// UnknownActionError reports an action type with no registered handler.
type UnknownActionError struct {
	Action workflow.ActionType
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("no handler registered for action type %q", e.Action)
}
