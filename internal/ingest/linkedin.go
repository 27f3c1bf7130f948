package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/skillo/pulse/internal/bus"
)

// EventTypeHeader is the LinkedIn header naming the event variant.
const EventTypeHeader = "X-Li-Event-Type"

// ParseLinkedIn parses a LinkedIn webhook body into bus events.
//
// Validation challenges (bodies carrying a challenge field) produce no
// events; the route answers those before calling here. The event
// variant comes from the X-Li-Event-Type header when present, otherwise
// from the body's eventType field. Bodies with neither are dropped.
// The full body is carried in the payload since LinkedIn event shapes
// vary by product.
func ParseLinkedIn(body []byte, headers map[string]string) ([]Event, error) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("parse linkedin payload: %w", err)
	}

	if _, isChallenge := fields["challenge"]; isChallenge {
		return nil, nil
	}

	eventType := headers[EventTypeHeader]
	if eventType == "" {
		eventType, _ = fields["eventType"].(string)
	}
	if eventType == "" {
		return nil, nil
	}

	payload := bus.Payload{
		"platform":  "linkedin",
		"eventType": eventType,
	}
	for k, v := range fields {
		if k == "platform" || k == "eventType" {
			continue
		}
		payload[k] = v
	}

	return []Event{{Type: "linkedin:event", Payload: payload}}, nil
}
