package netpeer

import "testing"

func TestTaskQueueEnqueueProcessTasks(t *testing.T) {
	q := NewTaskQueue()
	result := Enqueue(q, func() int { return 42 })

	q.ProcessTasks()

	select {
	case v := <-result:
		if v != 42 {
			t.Fatalf("expected 42, got %d", v)
		}
	default:
		t.Fatalf("expected result to be ready after ProcessTasks")
	}
}

func TestTaskQueueEnqueuedDuringDrainRunsNextDrain(t *testing.T) {
	q := NewTaskQueue()
	var second <-chan int

	first := Enqueue(q, func() int {
		second = Enqueue(q, func() int { return 2 })
		return 1
	})

	q.ProcessTasks()
	if v := <-first; v != 1 {
		t.Fatalf("expected first task to complete with 1, got %d", v)
	}

	select {
	case <-second:
		t.Fatalf("expected second task enqueued mid-drain to not run in the same ProcessTasks pass")
	default:
	}

	q.ProcessTasks()
	if v := <-second; v != 2 {
		t.Fatalf("expected second task to complete with 2 on the next drain, got %d", v)
	}
}

func TestRunOnOwnerThread(t *testing.T) {
	q := NewTaskQueue()
	done := make(chan struct{})
	go func() {
		q.Run(done)
	}()

	v := RunOnOwnerThread(q, func() int { return 7 })
	if v != 7 {
		t.Fatalf("expected 7, got %d", v)
	}
	close(done)
}
