// Package ingest translates raw platform webhook payloads into
// automation bus events.
//
// The HTTP receivers themselves (routing, signature verification,
// challenge responses) are external collaborators; this package only
// parses their already-verified bodies. Parsers are pure: they return
// the events to publish and never touch the bus, so callers decide when
// and where events go.
//
// Event types produced: meta:comment, meta:mention, linkedin:event,
// youtube:video_uploaded.
package ingest
