// Package schedule runs callbacks on a fixed interval until cancelled.
package schedule

import (
	"context"
	"time"
)

// Task is a periodically running callback. Stop cancels future runs and
// waits for an in-flight run to finish.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Start invokes fn every interval until the context is cancelled or Stop is
// called. The first invocation happens after one full interval. fn receives
// a context that is cancelled when the task stops.
func Start(ctx context.Context, interval time.Duration, fn func(context.Context)) *Task {
	if interval <= 0 {
		interval = time.Minute
	}
	runCtx, cancel := context.WithCancel(ctx)
	task := &Task{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(task.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				fn(runCtx)
			}
		}
	}()

	return task
}

// Stop cancels the task and blocks until any in-flight invocation returns.
// Safe to call more than once.
func (t *Task) Stop() {
	if t == nil {
		return
	}
	t.cancel()
	<-t.done
}
