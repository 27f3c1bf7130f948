package engine

import (
	"sort"
	"sync"
	"time"
)

// ManualClock is a simulated Clock for scenario replay and tests.
//
// Timers fire only when Advance moves simulated time past their
// deadline; they fire synchronously inside Advance, in deadline order,
// so delayed dispatch is observed deterministically.
//
// Thread-safety: all methods are safe for concurrent use. Timer state
// is guarded by the clock's mutex; callbacks run outside it.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

// NewManualClock creates a clock at an arbitrary fixed epoch.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current simulated time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f at now+d in simulated time.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &manualTimer{
		clock:    c,
		deadline: c.now.Add(d),
		f:        f,
	}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves simulated time forward and fires every timer whose
// deadline has been reached, in deadline order. Callbacks run
// synchronously on the caller's goroutine, after the clock lock is
// released.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now

	var due []*manualTimer
	var remaining []*manualTimer
	for _, t := range c.timers {
		switch {
		case t.stopped:
			// drop
		case !t.deadline.After(now):
			t.fired = true
			due = append(due, t)
		default:
			remaining = append(remaining, t)
		}
	}
	c.timers = remaining
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	for _, t := range due {
		t.f()
	}
}

// PendingTimers returns the number of scheduled, unfired timers.
func (c *ManualClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

type manualTimer struct {
	clock    *ManualClock
	deadline time.Time
	f        func()

	// guarded by clock.mu
	stopped bool
	fired   bool
}

// Stop cancels the timer. Reports whether it was stopped before firing.
func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
