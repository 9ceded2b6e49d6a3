// Package queue serializes mutating storage operations so that no two
// writes race against the underlying store.
//
// A single Queue instance guards the whole database: every write in
// the data access layer is enqueued here and tasks drain strictly in
// FIFO order, one at a time. Reads deliberately bypass the queue and
// may run concurrently with a queued write — an accepted relaxation of
// this design, not an oversight.
package queue

import (
	"context"
	"log/slog"
	"sync"
)

// Task is a unit of mutating work. It receives a background context;
// queued tasks have no deadline or abort mechanism and always run to
// completion or failure.
type Task func(ctx context.Context) error

type job struct {
	name string
	task Task
	done chan error
}

// Queue is the single-lane task scheduler. The zero value is not
// usable; construct with New.
type Queue struct {
	mu      sync.Mutex
	pending []job
	busy    bool
	log     *slog.Logger
}

// New returns an empty queue. If log is nil, slog.Default() is used.
func New(log *slog.Logger) *Queue {
	if log == nil {
		log = slog.Default()
	}
	return &Queue{log: log}
}

// Enqueue appends task to the pending list and returns immediately.
// The returned channel receives the task's result exactly once, after
// it has run; callers that do not care about the outcome may ignore
// it. A task that fails is logged and treated as complete — its
// failure never halts the queue or leaks into other queued tasks.
func (q *Queue) Enqueue(name string, task Task) <-chan error {
	j := job{name: name, task: task, done: make(chan error, 1)}

	q.mu.Lock()
	q.pending = append(q.pending, j)
	// One drain goroutine at a time; the busy flag is the queue's
	// "currently processing" marker.
	start := !q.busy
	if start {
		q.busy = true
	}
	q.mu.Unlock()

	if start {
		go q.drain()
	}
	return j.done
}

// Len reports the number of tasks still waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// drain pops and runs pending tasks one at a time until the list is
// empty, then clears the busy flag and exits.
func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.busy = false
			q.mu.Unlock()
			return
		}
		j := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		err := j.task(context.Background())
		if err != nil {
			q.log.Error("queued write failed", "task", j.name, "error", err)
		}
		j.done <- err
		close(j.done)
	}
}
