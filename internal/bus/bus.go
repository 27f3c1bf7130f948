package bus

import (
	"sync"

	"github.com/google/uuid"
)

// Payload is the opaque key-value body of an event. Fields are
// producer-defined; consumers read specific keys from it.
type Payload map[string]any

// Number reads a numeric payload field, coercing the integer and float
// types JSON and YAML decoders produce. Returns (0, false) when the key
// is absent or not numeric.
func (p Payload) Number(key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// String reads a string payload field, returning "" when absent or not
// a string.
func (p Payload) String(key string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	return ""
}

// Handler receives a published payload. Handlers are invoked
// synchronously by Publish and must not block for long; side effects
// belong in the dispatcher's asynchronous path.
type Handler func(payload Payload)

type subscriber struct {
	token   string
	handler Handler
}

// Bus is a mutex-protected publish/subscribe channel keyed by event
// type. Safe for concurrent use from any goroutine.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]subscriber
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[string][]subscriber)}
}

// Subscription identifies one handler registration and can remove
// exactly that handler.
type Subscription struct {
	bus       *Bus
	eventType string
	token     string
}

// EventType returns the event type this subscription listens on.
func (s *Subscription) EventType() string {
	return s.eventType
}

// Unsubscribe removes this subscription's handler only. Other handlers
// on the same event type keep receiving events. Idempotent.
func (s *Subscription) Unsubscribe() {
	s.bus.remove(s.eventType, s.token)
}

// Subscribe registers a handler for an event type and returns its
// subscription handle. Handlers are delivered to in subscription order.
func (b *Bus) Subscribe(eventType string, h Handler) *Subscription {
	token := uuid.NewString()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventType] = append(b.subs[eventType], subscriber{token: token, handler: h})

	return &Subscription{bus: b, eventType: eventType, token: token}
}

// Publish delivers the payload synchronously to every current
// subscriber of eventType, in subscription order. Fire-and-forget from
// the caller's perspective: Publish returns once all handlers have been
// invoked, without awaiting any asynchronous work they start.
//
// The subscriber list is snapshotted under the lock, so handlers may
// subscribe or unsubscribe without deadlocking; such changes take
// effect on the next publish.
func (b *Bus) Publish(eventType string, payload Payload) {
	b.mu.Lock()
	current := b.subs[eventType]
	snapshot := make([]subscriber, len(current))
	copy(snapshot, current)
	b.mu.Unlock()

	for _, s := range snapshot {
		s.handler(payload)
	}
}

// UnsubscribeAll removes every handler for an event type regardless of
// owner. Coarse: co-subscribed workflows on this type go silent too.
func (b *Bus) UnsubscribeAll(eventType string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, eventType)
}

// SubscriberCount returns the number of handlers for an event type.
func (b *Bus) SubscriberCount(eventType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[eventType])
}

func (b *Bus) remove(eventType, token string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[eventType]
	for i, s := range list {
		if s.token == token {
			b.subs[eventType] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(b.subs[eventType]) == 0 {
		delete(b.subs, eventType)
	}
}
