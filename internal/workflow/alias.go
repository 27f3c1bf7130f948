package workflow

// triggerAliases maps raw platform event-type strings to the abstract
// trigger type workflows are authored against. Event types absent from
// the table pass through unchanged (identity fallback), which is how
// workflows authored directly against raw types keep working.
var triggerAliases = map[string]TriggerType{
	"meta:comment":           TriggerNewComment,
	"meta:mention":           TriggerNewComment,
	"meta:like":              TriggerNewLike,
	"youtube:video_uploaded": TriggerNewYouTubeVideo,
	"youtube:new_subscriber": TriggerNewSubscriber,
	"post_published":         TriggerPostPublished,
}

// RawEventTypes enumerates the platform event types accepted directly
// as trigger values. A workflow may be authored against the abstract
// trigger vocabulary or against one of these raw types; the matcher
// checks both representations. A raw-typed trigger subscribes to its
// event type verbatim (identity, no alias expansion).
var RawEventTypes = map[string]bool{
	"meta:comment":           true,
	"meta:mention":           true,
	"meta:like":              true,
	"youtube:video_uploaded": true,
	"youtube:new_subscriber": true,
	"linkedin:event":         true,
}

// TriggerForEvent translates a raw event type to its abstract trigger
// type, falling back to the raw string itself when no alias exists.
func TriggerForEvent(eventType string) TriggerType {
	if t, ok := triggerAliases[eventType]; ok {
		return t
	}
	return TriggerType(eventType)
}

// EventTypesFor returns the set of event types a trigger subscribes to:
// the trigger's own type plus every raw platform event type that aliases
// to it (e.g. new_comment covers meta:comment and meta:mention).
// Order is deterministic: the trigger's own type first, then aliases in
// a fixed order.
func EventTypesFor(t TriggerType) []string {
	types := []string{string(t)}
	for _, raw := range aliasOrder {
		if triggerAliases[raw] == t && raw != string(t) {
			types = append(types, raw)
		}
	}
	return types
}

// aliasOrder fixes iteration order over triggerAliases for deterministic
// subscription sets.
var aliasOrder = []string{
	"meta:comment",
	"meta:mention",
	"meta:like",
	"youtube:video_uploaded",
	"youtube:new_subscriber",
	"post_published",
}

// SubscriptionSet returns the deduplicated union of event types for all
// trigger nodes in a graph, in first-seen order.
func SubscriptionSet(g *Graph) []string {
	seen := make(map[string]bool)
	var set []string
	for _, t := range g.TriggerTypes() {
		for _, ev := range EventTypesFor(t) {
			if seen[ev] {
				continue
			}
			seen[ev] = true
			set = append(set, ev)
		}
	}
	return set
}
