// Package scheduler provides the delayed-callback boundary that session
// timers run through: one-shot delays for the start-up timeout and
// repeating intervals for watch replay cadences.
//
// The Scheduler interface is injectable so tests can drive timer firing
// deterministically (see Manual). TimerScheduler is the production
// implementation on the runtime timer heap.
package scheduler

import (
	"sync"
	"time"
)

// Handle identifies a scheduled callback.
type Handle interface {
	// Cancel stops a pending callback from firing, or a repeating
	// callback from firing again. It reports whether the cancellation
	// took effect; a callback already in flight may still complete.
	Cancel() bool
}

// Scheduler runs callbacks after a delay or at a repeating interval.
// Callbacks run on scheduler-owned goroutines and must not block for
// long; they may call back into the scheduler.
type Scheduler interface {
	// Schedule runs fn once after delay.
	Schedule(delay time.Duration, fn func()) Handle

	// ScheduleRepeating runs fn every interval until the handle is
	// cancelled. The first run happens one interval after the call.
	ScheduleRepeating(interval time.Duration, fn func()) Handle
}

// TimerScheduler implements Scheduler on stdlib timers.
type TimerScheduler struct{}

// NewTimerScheduler returns the production scheduler.
func NewTimerScheduler() *TimerScheduler { return &TimerScheduler{} }

// Schedule runs fn once after delay via time.AfterFunc.
func (*TimerScheduler) Schedule(delay time.Duration, fn func()) Handle {
	return timerHandle{time.AfterFunc(delay, fn)}
}

// ScheduleRepeating runs fn on a ticker goroutine until cancelled.
func (*TimerScheduler) ScheduleRepeating(interval time.Duration, fn func()) Handle {
	h := &tickerHandle{done: make(chan struct{})}
	go h.run(interval, fn)
	return h
}

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Cancel() bool { return h.t.Stop() }

type tickerHandle struct {
	once sync.Once
	done chan struct{}
}

func (h *tickerHandle) Cancel() bool {
	cancelled := false
	h.once.Do(func() {
		close(h.done)
		cancelled = true
	})
	return cancelled
}

func (h *tickerHandle) run(interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			fn()
		}
	}
}

// Compile-time interface satisfaction check.
var _ Scheduler = (*TimerScheduler)(nil)
