package sched

import (
	"sort"
	"time"
)

// Virtual is a manually advanced clock. Callbacks run synchronously inside
// Advance, in deadline order; callbacks sharing a deadline run in the order
// they were scheduled. It is not safe for concurrent use.
type Virtual struct {
	now     time.Time
	seq     int
	pending []*virtualTimer
}

// NewVirtual creates a virtual clock starting at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Now returns the virtual time.
func (v *Virtual) Now() time.Time {
	return v.now
}

// AfterFunc schedules fn at Now()+d.
func (v *Virtual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	v.seq++
	t := &virtualTimer{clock: v, at: v.now.Add(d), seq: v.seq, fn: fn}
	v.pending = append(v.pending, t)
	return t
}

// Advance moves the clock forward by d, running every callback that becomes
// due. Callbacks scheduled by callbacks run too if they fall inside the window.
func (v *Virtual) Advance(d time.Duration) {
	target := v.now.Add(d)
	for {
		next := v.nextDue(target)
		if next == nil {
			break
		}
		v.remove(next)
		v.now = next.at
		next.fn()
	}
	v.now = target
}

// Pending returns the number of scheduled, unstopped callbacks.
func (v *Virtual) Pending() int {
	return len(v.pending)
}

func (v *Virtual) nextDue(target time.Time) *virtualTimer {
	if len(v.pending) == 0 {
		return nil
	}
	sort.SliceStable(v.pending, func(i, j int) bool {
		a, b := v.pending[i], v.pending[j]
		if a.at.Equal(b.at) {
			return a.seq < b.seq
		}
		return a.at.Before(b.at)
	})
	if v.pending[0].at.After(target) {
		return nil
	}
	return v.pending[0]
}

func (v *Virtual) remove(t *virtualTimer) bool {
	for i, p := range v.pending {
		if p == t {
			v.pending = append(v.pending[:i], v.pending[i+1:]...)
			return true
		}
	}
	return false
}

type virtualTimer struct {
	clock *Virtual
	at    time.Time
	seq   int
	fn    func()
}

func (t *virtualTimer) Stop() bool {
	return t.clock.remove(t)
}
