package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/skillo/pulse/internal/bus"
	"github.com/skillo/pulse/internal/workflow"
)

// DefaultUserID is the action-runner identity when none is configured.
const DefaultUserID = "default"

// Engine wires the bus, the workflow store, and the dispatcher
// together. Register turns a workflow graph into live bus
// subscriptions; the returned Registration tears them down again.
type Engine struct {
	bus        *bus.Bus
	store      *workflow.Store
	dispatcher *Dispatcher
	runCtx     RunContext
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRunContext sets the identity handed to the action runner on every
// dispatch. Defaults to DefaultUserID.
func WithRunContext(rc RunContext) EngineOption {
	return func(e *Engine) {
		e.runCtx = rc
	}
}

// New creates an engine on the given bus and dispatcher.
func New(b *bus.Bus, d *Dispatcher, opts ...EngineOption) *Engine {
	e := &Engine{
		bus:        b,
		store:      workflow.NewStore(),
		dispatcher: d,
		runCtx:     RunContext{UserID: DefaultUserID},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registration is the teardown handle for one registered workflow.
type Registration struct {
	engine     *Engine
	id         string
	eventTypes []string
	subs       []*bus.Subscription
	once       sync.Once
}

// ID returns the registration's unique id.
func (r *Registration) ID() string {
	return r.id
}

// EventTypes returns the event types this registration subscribed to.
func (r *Registration) EventTypes() []string {
	return r.eventTypes
}

// Update replaces the registered graph in place. The new graph is
// validated like at registration. Handlers match against the current
// graph on every event, so the change takes effect on the next event
// without re-registration.
//
// The subscription set is NOT recomputed: trigger-type changes that
// need different event types require teardown and a fresh Register.
func (r *Registration) Update(g *workflow.Graph) error {
	if errs := workflow.Validate(g); len(errs) > 0 {
		return fmt.Errorf("update workflow %s: %w", r.id, errs)
	}
	r.engine.store.Put(r.id, g)
	return nil
}

// Teardown removes this registration's bus subscriptions and cancels
// its outstanding delayed actions. Fine-grained: co-registered
// workflows sharing an event type keep their subscriptions. Idempotent.
func (r *Registration) Teardown() {
	r.once.Do(func() {
		for _, sub := range r.subs {
			sub.Unsubscribe()
		}
		cancelled := r.engine.dispatcher.CancelPending(r.id)
		r.engine.store.Delete(r.id)
		slog.Info("workflow torn down",
			"registration", r.id,
			"event_types", r.eventTypes,
			"cancelled_timers", cancelled,
		)
	})
}

// Register validates a workflow graph and subscribes the bus to the
// union of every trigger's own event type plus its alias expansions
// (e.g. new_comment also covers meta:comment and meta:mention).
//
// Each handler re-runs the full rule matcher against the registration's
// current graph on every event. A graph with no trigger nodes registers
// successfully with zero subscriptions; its teardown is a no-op.
func (e *Engine) Register(g *workflow.Graph) (*Registration, error) {
	if errs := workflow.Validate(g); len(errs) > 0 {
		return nil, fmt.Errorf("register workflow: %w", errs)
	}

	reg := &Registration{
		engine:     e,
		id:         uuid.NewString(),
		eventTypes: workflow.SubscriptionSet(g),
	}
	e.store.Put(reg.id, g)

	for _, eventType := range reg.eventTypes {
		ev := eventType
		sub := e.bus.Subscribe(ev, func(payload bus.Payload) {
			current, ok := e.store.Get(reg.id)
			if !ok {
				return
			}
			rule := MatchRule(current, ev)
			if rule == nil || rule.Action == nil {
				// No matching workflow path: silently ignored, not an error.
				return
			}
			e.dispatcher.Dispatch(reg.id, ev, rule, payload, e.runCtx)
		})
		reg.subs = append(reg.subs, sub)
	}

	slog.Info("workflow registered",
		"registration", reg.id,
		"nodes", len(g.Nodes),
		"event_types", reg.eventTypes,
	)
	return reg, nil
}

// Store exposes the workflow store for introspection and tests.
func (e *Engine) Store() *workflow.Store {
	return e.store
}
