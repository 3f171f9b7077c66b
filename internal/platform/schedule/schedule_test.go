package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestStart_InvokesCallbackRepeatedly(t *testing.T) {
	var calls atomic.Int64
	task := Start(context.Background(), 5*time.Millisecond, func(context.Context) {
		calls.Add(1)
	})
	defer task.Stop()

	deadline := time.After(2 * time.Second)
	for calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("callback ran %d times, want at least 3", calls.Load())
		case <-time.After(time.Millisecond):
		}
	}
}

func TestStop_WaitsForInFlightRun(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool

	task := Start(context.Background(), time.Millisecond, func(context.Context) {
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
	})

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never started")
	}

	task.Stop()
	if !finished.Load() {
		t.Fatal("Stop returned before the in-flight run finished")
	}

	// Second Stop must not panic or block.
	task.Stop()
}

func TestStart_ParentContextCancelStopsRuns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int64
	task := Start(ctx, time.Millisecond, func(context.Context) {
		calls.Add(1)
	})

	cancel()
	task.Stop()
	after := calls.Load()
	time.Sleep(10 * time.Millisecond)
	if calls.Load() != after {
		t.Fatal("callback ran after cancellation")
	}
}
