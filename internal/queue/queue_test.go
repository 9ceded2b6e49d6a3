package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTasksRunInEnqueueOrder(t *testing.T) {
	q := New(nil)

	var mu sync.Mutex
	var order []int
	var dones []<-chan error

	for i := 0; i < 20; i++ {
		i := i
		dones = append(dones, q.Enqueue("ordered", func(context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}))
	}
	for _, done := range dones {
		<-done
	}

	if len(order) != 20 {
		t.Fatalf("expected 20 tasks to run, got %d", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("task %d ran out of order: %v", got, order)
		}
	}
}

func TestAtMostOneTaskInFlight(t *testing.T) {
	q := New(nil)

	// inFlight must never exceed 1 while task bodies execute.
	var inFlight, maxSeen int64
	var dones []<-chan error

	for i := 0; i < 10; i++ {
		dones = append(dones, q.Enqueue("counted", func(context.Context) error {
			n := atomic.AddInt64(&inFlight, 1)
			for {
				seen := atomic.LoadInt64(&maxSeen)
				if n <= seen || atomic.CompareAndSwapInt64(&maxSeen, seen, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt64(&inFlight, -1)
			return nil
		}))
	}
	for _, done := range dones {
		<-done
	}

	if got := atomic.LoadInt64(&maxSeen); got != 1 {
		t.Fatalf("expected at most 1 task in flight, observed %d", got)
	}
}

func TestFailedTaskDoesNotHaltQueue(t *testing.T) {
	q := New(nil)

	boom := errors.New("boom")
	first := q.Enqueue("failing", func(context.Context) error { return boom })

	ran := false
	second := q.Enqueue("after-failure", func(context.Context) error {
		ran = true
		return nil
	})

	if err := <-first; !errors.Is(err, boom) {
		t.Fatalf("expected task error to be reported, got %v", err)
	}
	if err := <-second; err != nil {
		t.Fatalf("second task failed: %v", err)
	}
	if !ran {
		t.Fatal("task enqueued after a failure never ran")
	}
}

func TestEnqueueReturnsImmediately(t *testing.T) {
	q := New(nil)

	block := make(chan struct{})
	q.Enqueue("blocker", func(context.Context) error {
		<-block
		return nil
	})

	start := time.Now()
	done := q.Enqueue("waiter", func(context.Context) error { return nil })
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("Enqueue blocked for %v", elapsed)
	}

	close(block)
	<-done
}
