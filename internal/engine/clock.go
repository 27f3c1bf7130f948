package engine

import "time"

// Clock abstracts timer creation so delayed dispatch is testable with a
// simulated clock. Implemented by the real clock here and by
// ManualClock.
type Clock interface {
	// AfterFunc schedules f to run after d elapses, on its own goroutine.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a scheduled callback that can be stopped before it fires.
type Timer interface {
	// Stop cancels the timer. Reports whether it was stopped before
	// firing.
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{time.AfterFunc(d, f)}
}

type realTimer struct {
	t *time.Timer
}

func (t realTimer) Stop() bool {
	return t.t.Stop()
}

// NewClock returns the wall-clock backed Clock used in production.
func NewClock() Clock {
	return realClock{}
}
