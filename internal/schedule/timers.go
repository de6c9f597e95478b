package schedule

import (
	"sort"
	"time"
)

// TimerID identifies a pending timer. Zero is never a valid ID.
type TimerID uint64

type timer struct {
	id TimerID
	at time.Duration
	fn func()
}

// Timers is a timer queue driven by the frame loop instead of the wall
// clock. It is not safe for concurrent use; everything runs on the frame
// goroutine.
type Timers struct {
	now    time.Duration
	nextID TimerID
	queue  []timer
	closed bool
}

func NewTimers() *Timers {
	return &Timers{}
}

// After schedules fn to run once d of frame time has passed. After Close it
// does nothing and returns 0.
func (t *Timers) After(d time.Duration, fn func()) TimerID {
	if t.closed || fn == nil {
		return 0
	}
	t.nextID++
	t.queue = append(t.queue, timer{id: t.nextID, at: t.now + max(d, 0), fn: fn})
	return t.nextID
}

// Cancel removes a pending timer. It reports whether the timer was still
// pending.
func (t *Timers) Cancel(id TimerID) bool {
	for i, tm := range t.queue {
		if tm.id == id {
			t.queue = append(t.queue[:i], t.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves the clock and runs every timer that came due, earliest
// deadline first. Timers scheduled by a callback wait for the next Advance.
// It returns how many callbacks ran.
func (t *Timers) Advance(dt time.Duration) int {
	if t.closed {
		return 0
	}
	t.now += max(dt, 0)

	var due []timer
	for _, tm := range t.queue {
		if tm.at <= t.now {
			due = append(due, tm)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].id < due[j].id
	})

	fired := 0
	for _, tm := range due {
		// an earlier callback may have cancelled it or closed the queue
		if t.closed || !t.Cancel(tm.id) {
			continue
		}
		tm.fn()
		fired++
	}
	return fired
}

func (t *Timers) Pending() int { return len(t.queue) }

// Now is the frame time accumulated so far.
func (t *Timers) Now() time.Duration { return t.now }

// Close cancels every pending timer. Nothing fires afterwards.
func (t *Timers) Close() {
	t.closed = true
	t.queue = nil
}

func (t *Timers) Closed() bool { return t.closed }
