// Package sched provides the delayed-callback port shared by every timed
// component, with an event-loop implementation for the TUI and a virtual
// clock for tests.
package sched

import "time"

// Timer is a handle to a pending callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call prevented the
	// callback from running.
	Stop() bool
}

// Scheduler runs callbacks after a delay on the owning event loop.
type Scheduler interface {
	// AfterFunc arranges for fn to run once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
	// Now returns the scheduler's current time.
	Now() time.Time
}

// Ticker repeats fn every interval until the returned timer is stopped.
// The first call happens one interval after Ticker is invoked. The next
// interval is armed only when a tick is delivered, so delivery latency
// accumulates and ticks are not aligned to the wall clock.
func Ticker(s Scheduler, interval time.Duration, fn func()) Timer {
	t := &repeating{}
	var arm func()
	arm = func() {
		t.current = s.AfterFunc(interval, func() {
			if t.stopped {
				return
			}
			arm()
			fn()
		})
	}
	arm()
	return t
}

type repeating struct {
	current Timer
	stopped bool
}

func (r *repeating) Stop() bool {
	if r.stopped {
		return false
	}
	r.stopped = true
	return r.current.Stop()
}
