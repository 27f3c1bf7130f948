// Package bus implements the process-wide automation event bus.
//
// The bus is a publish/subscribe channel keyed by event-type string.
// Publish delivers the payload synchronously to every current subscriber
// of that type, in subscription order. Publish returns once all handlers
// have been invoked; any asynchronous work a handler starts is not
// awaited. There is no persistence, no cross-type ordering guarantee,
// and no back-pressure.
//
// Each Subscribe call returns its own Subscription handle; Unsubscribe
// removes only that handler, so co-subscribed workflows on the same
// event type are unaffected. UnsubscribeAll exists for coarse teardown
// of an entire event type.
//
// The bus is an explicit constructed instance, not a global singleton:
// the process entry point owns its lifecycle and hands it to whichever
// components need it.
package bus
