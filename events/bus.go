// Package events delivers named inbound events (progress, library pushes, errors) to
// subscribers on the view loop.
package events

import (
	"sync"
	"sync/atomic"

	"github.com/giwty/slm-view/loop"
)

// Event handler, always called on the loop
type Handler func(payload any)

// Subscription side of the bus
type Subscriber interface {
	// On registers h for the named event and returns the function removing it
	On(name string, h Handler) (unsubscribe func())
}

// Publishing side of the bus
type Emitter interface {
	Emit(name string, payload any)
}

type subscription struct {
	handler Handler
	active  atomic.Bool
}

// Named event bus
type Bus struct {
	loop     loop.Loop
	mu       sync.Mutex
	handlers map[string][]*subscription
}

// Constructor for the bus, handlers run on l
func NewBus(l loop.Loop) *Bus {
	return &Bus{
		loop:     l,
		handlers: map[string][]*subscription{},
	}
}

func (b *Bus) On(name string, h Handler) func() {
	s := &subscription{handler: h}
	s.active.Store(true)

	b.mu.Lock()
	b.handlers[name] = append(b.handlers[name], s)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.active.Store(false)
			b.remove(name, s)
		})
	}
}

// Emit is safe from any goroutine. Handlers removed before delivery are skipped.
func (b *Bus) Emit(name string, payload any) {
	b.mu.Lock()
	subs := append([]*subscription{}, b.handlers[name]...)
	b.mu.Unlock()

	if len(subs) == 0 {
		return
	}

	b.loop.Post(func() {
		for _, s := range subs {
			if s.active.Load() {
				s.handler(payload)
			}
		}
	})
}

// Number of live subscriptions for an event
func (b *Bus) Count(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[name])
}

func (b *Bus) remove(name string, s *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[name]
	for i, c := range subs {
		if c == s {
			b.handlers[name] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[name]) == 0 {
		delete(b.handlers, name)
	}
}
