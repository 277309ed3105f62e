package scheduler

import (
	"sync"
	"time"
)

// Manual is a deterministic Scheduler for tests. Nothing fires until
// Advance moves the virtual clock; due callbacks then run synchronously
// on the caller's goroutine, earliest deadline first. Callbacks may
// schedule further work, which fires in the same Advance if it falls
// inside the advanced window.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	entries map[int]*manualEntry
}

type manualEntry struct {
	id       int
	at       time.Duration
	interval time.Duration // 0 for one-shot
	fn       func()
}

// NewManual returns a Manual scheduler with the virtual clock at zero.
func NewManual() *Manual {
	return &Manual{entries: make(map[int]*manualEntry)}
}

// Schedule registers fn to fire once when the clock has advanced by delay.
func (m *Manual) Schedule(delay time.Duration, fn func()) Handle {
	return m.add(delay, 0, fn)
}

// ScheduleRepeating registers fn to fire every interval of virtual time.
func (m *Manual) ScheduleRepeating(interval time.Duration, fn func()) Handle {
	return m.add(interval, interval, fn)
}

func (m *Manual) add(delay, interval time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	e := &manualEntry{id: m.seq, at: m.now + delay, interval: interval, fn: fn}
	m.entries[e.id] = e
	return &manualHandle{m: m, id: e.id}
}

// Advance moves the virtual clock forward by d and fires everything that
// comes due, in deadline order with scheduling order breaking ties.
// Advance(0) flushes callbacks scheduled with zero delay.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	for {
		e := m.nextDueLocked(target)
		if e == nil {
			break
		}
		m.now = e.at
		if e.interval > 0 {
			e.at += e.interval
		} else {
			delete(m.entries, e.id)
		}
		fn := e.fn
		m.mu.Unlock()
		fn()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

func (m *Manual) nextDueLocked(target time.Duration) *manualEntry {
	var due *manualEntry
	for _, e := range m.entries {
		if e.at > target {
			continue
		}
		if due == nil || e.at < due.at || (e.at == due.at && e.id < due.id) {
			due = e
		}
	}
	return due
}

// Pending reports how many callbacks are currently scheduled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Now reports the current virtual clock reading.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

type manualHandle struct {
	m  *Manual
	id int
}

func (h *manualHandle) Cancel() bool {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	_, ok := h.m.entries[h.id]
	delete(h.m.entries, h.id)
	return ok
}

// Compile-time interface satisfaction check.
var _ Scheduler = (*Manual)(nil)
