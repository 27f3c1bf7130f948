// Package engine implements the Pulse automation rule engine.
//
// The engine receives webhook-derived events from an event bus, matches
// them against registered workflow graphs, evaluates conditions, and
// dispatches actions, optionally after a delay.
//
// Control flow per event:
//
//  1. A webhook handler publishes a typed event with payload onto the bus.
//  2. Each workflow subscribed to that event type re-runs the rule
//     matcher against its CURRENT graph (not a cached match), so edits
//     to a still-registered graph take effect on the next event.
//  3. If the matched path has a condition node, the evaluator decides
//     whether to proceed; a false condition is a silent no-op.
//  4. If the path has a delay node, the dispatcher schedules the action
//     on a cancellable timer; otherwise the action runs immediately in
//     its own goroutine, never blocking the publisher.
//  5. Action failures are caught at the dispatcher boundary, logged with
//     the action type and event context, and dropped. No retry, no
//     dead-letter queue: actions here are best-effort side effects.
//
// State machine per event:
//
//	Idle → Matching → {NoMatch: Idle} | Matched
//	     → ConditionCheck → {Fail: Idle} | Pass
//	     → {Delay: Scheduled → timer → Running} | {NoDelay: Running}
//	     → {Success | Failure(logged)} → Idle
//
// Only a single linear path per trigger is considered: the matcher
// follows the first outgoing edge in authored order, with no branching,
// no merge nodes, and no cycle handling. That is deliberate; the
// authoring UI only produces linear chains of at most a few nodes.
package engine
