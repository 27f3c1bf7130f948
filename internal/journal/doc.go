// Package journal records dispatched automation actions in SQLite.
//
// The engine's failure policy is log-and-drop: a failed action never
// surfaces to the publisher, so the only durable trace of what the
// automation layer did (or silently failed to do) is this journal.
// Workflows themselves are not persisted; durability covers dispatch
// history only.
//
// The journal implements engine.Recorder and is attached to the
// dispatcher with engine.WithRecorder.
package journal
