package ingest

import "github.com/skillo/pulse/internal/bus"

// Event is one parsed platform occurrence, ready to publish.
type Event struct {
	Type    string
	Payload bus.Payload
}

// PublishAll publishes the events onto the bus in order.
func PublishAll(b *bus.Bus, events []Event) {
	for _, ev := range events {
		b.Publish(ev.Type, ev.Payload)
	}
}
