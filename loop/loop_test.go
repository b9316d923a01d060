package loop

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestManualTimersFireInOrder(t *testing.T) {
	m := NewManual()
	var fired []string

	m.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	m.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	stopped := m.AfterFunc(1500*time.Millisecond, func() { fired = append(fired, "x") })

	if !stopped.Stop() {
		t.Fatalf("Stop() on a pending timer returned false")
	}
	if stopped.Stop() {
		t.Fatalf("second Stop() returned true")
	}

	m.Advance(1999 * time.Millisecond)
	if !reflect.DeepEqual(fired, []string{"a"}) {
		t.Fatalf("fired = %v after 1999ms", fired)
	}

	m.Advance(time.Millisecond)
	if !reflect.DeepEqual(fired, []string{"a", "b"}) {
		t.Fatalf("fired = %v after 2s", fired)
	}
	if m.PendingTimers() != 0 {
		t.Errorf("pending timers = %d", m.PendingTimers())
	}
}

func TestManualTimerScheduledFromCallback(t *testing.T) {
	m := NewManual()
	var at []time.Duration
	start := m.Now()

	m.AfterFunc(time.Second, func() {
		at = append(at, m.Now().Sub(start))
		m.AfterFunc(time.Second, func() { at = append(at, m.Now().Sub(start)) })
	})

	m.Advance(5 * time.Second)
	if !reflect.DeepEqual(at, []time.Duration{time.Second, 2 * time.Second}) {
		t.Errorf("at = %v", at)
	}
}

func TestManualWorkOrder(t *testing.T) {
	m := NewManual()
	var got []int

	for i := 1; i <= 3; i++ {
		i := i
		m.Go(func() func() {
			return func() { got = append(got, i) }
		})
	}
	if m.PendingWork() != 3 {
		t.Fatalf("pending work = %d", m.PendingWork())
	}

	m.RunWork(2)
	m.RunAllWork()
	if !reflect.DeepEqual(got, []int{3, 1, 2}) {
		t.Errorf("got %v", got)
	}
}

func TestQueueRunsPostedAndTimers(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go q.Run(ctx)

	var mu sync.Mutex
	var got []string
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, s)
	}

	done := make(chan struct{})
	stopped := q.AfterFunc(10*time.Millisecond, func() { record("stopped") })
	stopped.Stop()
	q.AfterFunc(20*time.Millisecond, func() {
		record("timer")
		close(done)
	})
	worked := make(chan struct{})
	q.Go(func() func() {
		return func() {
			record("work")
			close(worked)
		}
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
	select {
	case <-worked:
	case <-time.After(2 * time.Second):
		t.Fatal("work continuation did not run")
	}

	if err := q.Call(ctx, func() {}); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	for _, s := range got {
		if s == "stopped" {
			t.Errorf("stopped timer ran")
		}
	}
	if len(got) != 2 {
		t.Errorf("got %v", got)
	}
}

func TestDispatchedRunsInOrder(t *testing.T) {
	d := NewDispatched()
	wakes := make(chan struct{}, 16)

	var got []int
	d.Post(func() { got = append(got, 1) })
	d.Post(func() { got = append(got, 2) })

	// nothing is signaled before the dispatcher hooks in
	select {
	case <-wakes:
		t.Fatalf("woken without a hook")
	case <-time.After(10 * time.Millisecond):
	}

	d.SetWake(func() { wakes <- struct{}{} })

	done := make(chan struct{})
	d.Go(func() func() {
		return func() {
			got = append(got, 3)
			close(done)
		}
	})

	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-wakes:
			d.Drain()
		case <-deadline:
			t.Fatalf("dispatched work never ran, got %v", got)
		}
		select {
		case <-done:
			if !reflect.DeepEqual(got, []int{1, 2, 3}) {
				t.Errorf("got = %v", got)
			}
			return
		default:
		}
	}
}

func TestDispatchedStoppedTimer(t *testing.T) {
	d := NewDispatched()
	wakes := make(chan struct{}, 16)
	d.SetWake(func() { wakes <- struct{}{} })

	fired := false
	timer := d.AfterFunc(time.Millisecond, func() { fired = true })
	<-wakes
	timer.Stop()
	d.Drain()

	if fired {
		t.Errorf("stopped timer ran")
	}
}
