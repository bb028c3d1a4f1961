package debounce_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"order-desk/internal/debounce"
)

func TestDebouncer_OnlyLastRuns(t *testing.T) {
	d := debounce.New(30 * time.Millisecond)
	var calls atomic.Int32
	var last atomic.Int32

	var tasks []*debounce.Task
	for i := 1; i <= 5; i++ {
		i := int32(i)
		tasks = append(tasks, d.Schedule(func() {
			calls.Add(1)
			last.Store(i)
		}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for i, task := range tasks {
		ran, err := task.Wait(ctx)
		if err != nil {
			t.Fatalf("task %d: %v", i, err)
		}
		if want := i == len(tasks)-1; ran != want {
			t.Errorf("task %d ran = %v, want %v", i, ran, want)
		}
	}
	if calls.Load() != 1 || last.Load() != 5 {
		t.Errorf("calls = %d, last = %d", calls.Load(), last.Load())
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := debounce.New(20 * time.Millisecond)
	var calls atomic.Int32
	task := d.Schedule(func() { calls.Add(1) })
	d.Cancel()

	ran, err := task.Wait(context.Background())
	if err != nil || ran {
		t.Fatalf("Wait = %v, %v", ran, err)
	}
	time.Sleep(50 * time.Millisecond)
	if calls.Load() != 0 {
		t.Error("cancelled task ran")
	}
	d.Cancel()
}

func TestDebouncer_SpacedCallsAllRun(t *testing.T) {
	d := debounce.New(5 * time.Millisecond)
	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		ran, err := d.Schedule(func() { calls.Add(1) }).Wait(context.Background())
		if err != nil || !ran {
			t.Fatalf("call %d: ran = %v, err = %v", i, ran, err)
		}
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestTask_WaitHonoursContext(t *testing.T) {
	d := debounce.New(time.Hour)
	defer d.Cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := d.Schedule(func() {}).Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
}
