package countdown

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending one-shot callback.
type Timer interface {
	Stop() bool
}

// Clock schedules one-shot callbacks.
type Clock interface {
	AfterFunc(delay time.Duration, fn func()) Timer
	Now() time.Time
}

type realClock struct{}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock {
	return realClock{}
}

func (realClock) AfterFunc(delay time.Duration, fn func()) Timer {
	return time.AfterFunc(delay, fn)
}

func (realClock) Now() time.Time {
	return time.Now()
}

// ManualClock is a Clock driven by Advance. Callbacks run on the caller's goroutine.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	nextID  int
	pending map[int]*manualTimer
}

type manualTimer struct {
	clock *ManualClock
	id    int
	due   time.Time
	fn    func()
}

// NewManualClock creates a ManualClock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{
		now:     start,
		pending: make(map[int]*manualTimer),
	}
}

// AfterFunc schedules fn to run once the clock has advanced by delay.
func (clock *ManualClock) AfterFunc(delay time.Duration, fn func()) Timer {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.nextID++
	timer := &manualTimer{clock: clock, id: clock.nextID, due: clock.now.Add(delay), fn: fn}
	clock.pending[timer.id] = timer
	return timer
}

// Now returns the simulated time.
func (clock *ManualClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// Pending returns the number of armed timers.
func (clock *ManualClock) Pending() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return len(clock.pending)
}

// Advance moves the clock forward, firing due timers in order.
// Timers armed by a callback fire within the same call when they fall due.
func (clock *ManualClock) Advance(delta time.Duration) {
	clock.mu.Lock()
	target := clock.now.Add(delta)
	clock.mu.Unlock()

	for {
		clock.mu.Lock()
		next := clock.nextDueLocked(target)
		if next == nil {
			clock.now = target
			clock.mu.Unlock()
			return
		}
		delete(clock.pending, next.id)
		clock.now = next.due
		clock.mu.Unlock()

		next.fn()
	}
}

func (clock *ManualClock) nextDueLocked(target time.Time) *manualTimer {
	due := make([]*manualTimer, 0, len(clock.pending))
	for _, timer := range clock.pending {
		if !timer.due.After(target) {
			due = append(due, timer)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].id < due[j].id
		}
		return due[i].due.Before(due[j].due)
	})
	return due[0]
}

func (timer *manualTimer) Stop() bool {
	timer.clock.mu.Lock()
	defer timer.clock.mu.Unlock()
	if _, ok := timer.clock.pending[timer.id]; !ok {
		return false
	}
	delete(timer.clock.pending, timer.id)
	return true
}
