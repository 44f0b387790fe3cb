package task

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/adamwoolhether/httpc/client/request"
)

var (
	// ErrSlotBusy is returned by [Slot.Start] while a task is held.
	ErrSlotBusy = errors.New("async task already in progress")
	// ErrNoTask is returned by [Slot.Wait] when nothing is waiting to be reaped.
	ErrNoTask = errors.New("no async task in progress")
)

// RunFunc executes a spec on the worker goroutine.
type RunFunc func(ctx context.Context, spec request.Spec) request.Outcome

// Task is one deferred request. After Start, the worker goroutine is the
// only writer of outcome, and it closes done once outcome is set.
type Task struct {
	id      uuid.UUID
	spec    request.Spec
	done    chan struct{}
	outcome request.Outcome

	// reaping is guarded by the owning Slot's mutex.
	reaping bool
}

// ID identifies the task in logs.
func (t *Task) ID() uuid.UUID { return t.id }

// Spec returns the request the task runs.
func (t *Task) Spec() request.Spec { return t.spec }

// Done returns a channel closed when the worker has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Completed reports whether the worker has finished, without blocking.
func (t *Task) Completed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
