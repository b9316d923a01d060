// Package loop provides the single-threaded execution model of the view layer.
//
// Controller state is only touched from functions running on a Loop. Backend calls run
// off-loop through Go and hand their continuation back to the loop, and timers fire on the
// loop. A stopped Timer never runs its callback, even if it already expired.
package loop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Cancelable scheduled task
type Timer interface {
	// Stop prevents the callback from running.
	// Returns false if the callback already ran or the timer was already stopped.
	Stop() bool
}

// Event loop contract used by the controllers
type Loop interface {
	// Post queues f to run on the loop
	Post(f func())
	// AfterFunc runs f on the loop once d has elapsed
	AfterFunc(d time.Duration, f func()) Timer
	// Go runs work off the loop, then posts the returned continuation (if any)
	Go(work func() func())
}

// Goroutine-owned loop, driven by Run
type Queue struct {
	mu      sync.Mutex
	pending []func()
	closed  bool
	wake    chan struct{}
}

// Constructor for a queue loop
func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

func (q *Queue) Post(f func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.pending = append(q.pending, f)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) AfterFunc(d time.Duration, f func()) Timer {
	return afterFunc(q.Post, d, f)
}

func (q *Queue) Go(work func() func()) {
	goWork(q.Post, work)
}

// Run executes posted functions until ctx is done.
// Functions posted after Run returns are dropped.
func (q *Queue) Run(ctx context.Context) error {
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()

		for _, f := range batch {
			f()
		}
		if len(batch) > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			q.mu.Lock()
			q.closed = true
			q.pending = nil
			q.mu.Unlock()
			return ctx.Err()
		case <-q.wake:
		}
	}
}

// Run f on the loop and wait for it to complete
func (q *Queue) Call(ctx context.Context, f func()) error {
	done := make(chan struct{})
	q.Post(func() {
		f()
		close(done)
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Timer posting its callback through post once d has elapsed
func afterFunc(post func(func()), d time.Duration, f func()) Timer {
	t := &queueTimer{}
	t.timer = time.AfterFunc(d, func() {
		post(func() {
			if t.stopped.Load() {
				return
			}
			t.ran.Store(true)
			f()
		})
	})
	return t
}

func goWork(post func(func()), work func() func()) {
	go func() {
		if next := work(); next != nil {
			post(next)
		}
	}()
}

type queueTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
	ran     atomic.Bool
}

func (t *queueTimer) Stop() bool {
	t.timer.Stop()
	if t.stopped.Swap(true) {
		return false
	}
	return !t.ran.Load()
}
