package loop

import (
	"sync"
	"time"
)

// Deterministic loop with a fake clock.
// Posted functions run on Flush, off-loop work runs on RunWork, timers fire on Advance.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	queue  []func()
	timers []*manualTimer
	work   []func() func()
}

// Constructor for a manual loop, the clock starts at the zero time
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Post(f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, f)
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{at: m.now.Add(d), f: f}
	m.timers = append(m.timers, t)
	return t
}

func (m *Manual) Go(work func() func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.work = append(m.work, work)
}

// Current fake time
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Number of off-loop work items not yet run
func (m *Manual) PendingWork() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.work)
}

// Number of timers still waiting to fire
func (m *Manual) PendingTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, t := range m.timers {
		if !t.done {
			count++
		}
	}
	return count
}

// Run every posted function, including the ones posted while flushing
func (m *Manual) Flush() {
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return
		}
		f := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		f()
	}
}

// Complete the i-th pending work item (in submission order) and flush its continuation
func (m *Manual) RunWork(i int) {
	m.mu.Lock()
	if i < 0 || i >= len(m.work) {
		m.mu.Unlock()
		return
	}
	work := m.work[i]
	m.work = append(m.work[:i:i], m.work[i+1:]...)
	m.mu.Unlock()

	if next := work(); next != nil {
		m.Post(next)
	}
	m.Flush()
}

// Complete all pending work in submission order
func (m *Manual) RunAllWork() {
	for m.PendingWork() > 0 {
		m.RunWork(0)
	}
}

// Move the clock forward, firing due timers in time order
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		var next *manualTimer
		for _, t := range m.timers {
			if t.done || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			m.now = target
			m.compact()
			m.mu.Unlock()
			m.Flush()
			return
		}
		m.now = next.at
		next.done = true
		m.mu.Unlock()

		next.f()
		m.Flush()
	}
}

// drop fired and stopped timers, mu held
func (m *Manual) compact() {
	active := m.timers[:0]
	for _, t := range m.timers {
		if !t.done {
			active = append(active, t)
		}
	}
	m.timers = active
}

type manualTimer struct {
	at   time.Time
	f    func()
	done bool
}

func (t *manualTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	return true
}
