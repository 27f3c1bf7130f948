package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/skillo/pulse/internal/bus"
)

// Meta webhook body: object plus entries carrying field-scoped changes.
type metaBody struct {
	Object string      `json:"object"`
	Entry  []metaEntry `json:"entry"`
}

type metaEntry struct {
	ID      string       `json:"id"`
	Changes []metaChange `json:"changes"`
}

type metaChange struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

type metaCommentValue struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	From      any      `json:"from"`
	Timestamp any      `json:"timestamp"`
	Media     struct { // nested media reference
		ID string `json:"id"`
	} `json:"media"`
}

// ParseMeta parses a Meta (Instagram) webhook body into bus events.
// Only object == "instagram" bodies produce events; comments become
// meta:comment and mentions become meta:mention. Unrecognized change
// fields are skipped.
func ParseMeta(body []byte) ([]Event, error) {
	var b metaBody
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, fmt.Errorf("parse meta payload: %w", err)
	}
	if b.Object != "instagram" {
		return nil, nil
	}

	var events []Event
	for _, entry := range b.Entry {
		for _, change := range entry.Changes {
			switch change.Field {
			case "comments":
				var v metaCommentValue
				if err := json.Unmarshal(change.Value, &v); err != nil {
					return nil, fmt.Errorf("parse meta comment value: %w", err)
				}
				events = append(events, Event{
					Type: "meta:comment",
					Payload: bus.Payload{
						"platform":  "meta",
						"igUserId":  entry.ID,
						"mediaId":   v.Media.ID,
						"commentId": v.ID,
						"text":      v.Text,
						"from":      v.From,
						"timestamp": v.Timestamp,
					},
				})
			case "mentions":
				var mention map[string]any
				if err := json.Unmarshal(change.Value, &mention); err != nil {
					return nil, fmt.Errorf("parse meta mention value: %w", err)
				}
				var mediaID string
				if media, ok := mention["media"].(map[string]any); ok {
					mediaID, _ = media["id"].(string)
				}
				events = append(events, Event{
					Type: "meta:mention",
					Payload: bus.Payload{
						"platform": "meta",
						"igUserId": entry.ID,
						"mediaId":  mediaID,
						"mention":  mention,
					},
				})
			}
		}
	}
	return events, nil
}
