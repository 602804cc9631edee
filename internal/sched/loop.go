package sched

import (
	"sync"
	"time"
)

// Poster hands a callback to the event loop. Implementations must run fn on
// the loop goroutine, never inline on the caller.
type Poster func(fn func())

// Loop is a Scheduler backed by real timers whose callbacks are posted to a
// single event loop. Callbacks of stopped timers never run, even when the
// underlying timer already fired and the post is in flight.
type Loop struct {
	mu   sync.Mutex
	post Poster
	now  func() time.Time
}

// NewLoop creates a Loop that delivers callbacks through post. The poster may
// be attached later with SetPoster. A timer that fires while no poster is
// attached is dropped and counts as finished, so its Stop reports false.
func NewLoop(post Poster) *Loop {
	return &Loop{post: post, now: time.Now}
}

// SetPoster replaces the poster used for subsequent timer firings.
func (l *Loop) SetPoster(post Poster) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.post = post
}

// Now returns the wall clock time.
func (l *Loop) Now() time.Time {
	return l.now()
}

// AfterFunc arms a real timer that posts fn to the loop when it expires.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		l.mu.Lock()
		post := l.post
		l.mu.Unlock()
		if post == nil {
			lt.cancel()
			return
		}
		post(func() {
			if lt.cancel() {
				fn()
			}
		})
	})
	return lt
}

type loopTimer struct {
	mu   sync.Mutex
	t    *time.Timer
	done bool
}

// cancel marks the timer finished and reports whether it was still live.
func (lt *loopTimer) cancel() bool {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if lt.done {
		return false
	}
	lt.done = true
	return true
}

func (lt *loopTimer) finished() bool {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	return lt.done
}

func (lt *loopTimer) Stop() bool {
	if !lt.cancel() {
		return false
	}
	lt.t.Stop()
	return true
}
