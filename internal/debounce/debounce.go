// Package debounce runs only the last of a burst of calls, after a quiet period.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Debouncer schedules at most one pending task. Scheduling a new task
// supersedes the pending one.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending *Task
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Task is a scheduled call.
type Task struct {
	timer *time.Timer
	done  chan struct{}
	once  sync.Once
	ran   bool
}

func (t *Task) finish(ran bool) {
	t.once.Do(func() {
		t.ran = ran
		close(t.done)
	})
}

// Wait blocks until the task has run or been superseded. It reports whether
// fn ran.
func (t *Task) Wait(ctx context.Context) (bool, error) {
	select {
	case <-t.done:
		return t.ran, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Schedule cancels the pending task, if any, and runs fn after the delay.
func (d *Debouncer) Schedule(fn func()) *Task {
	t := &Task{done: make(chan struct{})}

	d.mu.Lock()
	if prev := d.pending; prev != nil {
		prev.timer.Stop()
		prev.finish(false)
	}
	d.pending = t
	t.timer = time.AfterFunc(d.delay, func() { d.fire(t, fn) })
	d.mu.Unlock()
	return t
}

func (d *Debouncer) fire(t *Task, fn func()) {
	d.mu.Lock()
	if d.pending != t {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	d.mu.Unlock()

	fn()
	t.finish(true)
}

// Cancel drops the pending task without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.timer.Stop()
		d.pending.finish(false)
		d.pending = nil
	}
}
