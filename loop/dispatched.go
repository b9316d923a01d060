package loop

import (
	"sync"
	"time"
)

// Loop hosted by an external dispatcher, such as a UI framework's message loop.
// Posting never blocks: functions are queued and wake is called on its own goroutine,
// the dispatcher then runs them with Drain.
type Dispatched struct {
	mu       sync.Mutex
	pending  []func()
	wake     func()
	signaled bool
}

// Constructor for a dispatched loop, nothing runs until SetWake
func NewDispatched() *Dispatched {
	return &Dispatched{}
}

// Install the dispatcher hook, work posted before is signaled right away
func (d *Dispatched) SetWake(wake func()) {
	d.mu.Lock()
	d.wake = wake
	d.mu.Unlock()
	d.signal()
}

func (d *Dispatched) Post(f func()) {
	d.mu.Lock()
	d.pending = append(d.pending, f)
	d.mu.Unlock()
	d.signal()
}

func (d *Dispatched) AfterFunc(dur time.Duration, f func()) Timer {
	return afterFunc(d.Post, dur, f)
}

func (d *Dispatched) Go(work func() func()) {
	goWork(d.Post, work)
}

// Run the queued functions, called by the dispatcher on its own goroutine
func (d *Dispatched) Drain() {
	d.mu.Lock()
	batch := d.pending
	d.pending = nil
	d.signaled = false
	d.mu.Unlock()

	for _, f := range batch {
		f()
	}
}

func (d *Dispatched) signal() {
	d.mu.Lock()
	if d.signaled || d.wake == nil || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	d.signaled = true
	wake := d.wake
	d.mu.Unlock()

	go wake()
}
