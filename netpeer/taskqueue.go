// Package netpeer implements the replication layer: a per-thread task
// queue for hopping work onto an owner goroutine, and a symmetric
// client/server RPC peer that carries Commands over a framed connection.
//
// Grounded on original_source/src/gui/task_queue.h (TaskQueue) and
// original_source/src/gui/net/{client,server,shared}.h.
package netpeer

import (
	"sync"
)

// task is the internal, type-erased form a TaskQueue stores. The generic
// Enqueue wraps a caller's typed function in one of these.
type task struct {
	run func()
}

// TaskQueue is a mutex-guarded FIFO of pending work, meant to be drained by
// a single owning goroutine (a GUI thread, in the original; here, whichever
// goroutine calls ProcessTasks, typically the peer's own event loop).
//
// Enqueue never blocks; it returns immediately with a channel the caller
// can receive the result from once ProcessTasks eventually runs the task.
// This mirrors task_queue.h's use of std::packaged_task/std::future.
type TaskQueue struct {
	mu     sync.Mutex
	tasks  []task
	notify chan struct{}
}

// NewTaskQueue returns an empty queue.
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{notify: make(chan struct{}, 1)}
}

// Enqueue schedules fn to run on the owning goroutine's next ProcessTasks
// call and returns a channel that receives fn's result exactly once.
func Enqueue[R any](q *TaskQueue, fn func() R) <-chan R {
	result := make(chan R, 1)
	q.mu.Lock()
	q.tasks = append(q.tasks, task{run: func() {
		result <- fn()
	}})
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return result
}

// Run drains the queue whenever work is enqueued, until stop is closed.
// This is the loop a connection-owning goroutine runs instead of polling
// ProcessTasks in a busy loop.
func (q *TaskQueue) Run(stop <-chan struct{}) {
	q.ProcessTasks()
	for {
		select {
		case <-stop:
			return
		case <-q.notify:
			q.ProcessTasks()
		}
	}
}

// ProcessTasks runs every task queued at the moment of the call, in order.
// A task enqueued while ProcessTasks is running (from within another
// task's fn, or concurrently from another goroutine) is left for the next
// call rather than run in this pass, so ProcessTasks always terminates.
func (q *TaskQueue) ProcessTasks() {
	q.mu.Lock()
	pending := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, t := range pending {
		t.run()
	}
}

// RunOnOwnerThread enqueues fn and blocks until it has run, returning its
// result. This is the synchronous convenience wrapper original_source's
// runOnGuiThread<T>(...).get() provides; the caller is a different
// goroutine than the one draining q via ProcessTasks, or this deadlocks.
func RunOnOwnerThread[R any](q *TaskQueue, fn func() R) R {
	return <-Enqueue(q, fn)
}
