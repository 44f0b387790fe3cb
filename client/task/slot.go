// Package task runs one deferred request at a time on a background
// goroutine and hands its outcome to whoever reaps it.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/adamwoolhether/httpc/client/request"
)

// Slot holds at most one [Task]. The slot stays occupied from Start until
// the matching Wait returns, including while Wait is joining the worker, so
// a second worker can never be spawned alongside a live one.
//
// A Slot is owned by one client unless it is deliberately passed to several.
type Slot struct {
	mu     sync.Mutex
	task   *Task
	live   atomic.Int32
	logger *slog.Logger
}

// NewSlot returns an empty Slot.
func NewSlot(optFns ...Option) *Slot {
	var opts options
	for _, opt := range optFns {
		opt(&opts)
	}
	if opts.logger == nil {
		opts.logger = slog.Default()
	}

	return &Slot{logger: opts.logger}
}

// Start occupies the slot with spec and launches one goroutine running fn.
// It fails with [ErrSlotBusy], leaving the held task untouched, if the slot
// is not empty. The worker keeps ctx's values but not its cancellation:
// once started, a task runs to completion.
func (s *Slot) Start(ctx context.Context, spec request.Spec, fn RunFunc) (*Task, error) {
	if fn == nil {
		return nil, errors.New("run func must not be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.task != nil {
		return nil, fmt.Errorf("%w: task %s", ErrSlotBusy, s.task.id)
	}

	t := &Task{
		id:   uuid.New(),
		spec: spec,
		done: make(chan struct{}),
	}
	s.task = t

	s.live.Add(1)
	go func() {
		defer func() {
			s.live.Add(-1)
			close(t.done)
		}()

		start := time.Now()
		t.outcome = fn(context.WithoutCancel(ctx), spec)
		s.logger.Debug("async task finished", "task_id", t.id, "ok", t.outcome.OK(), "since", time.Since(start).String())
	}()

	s.logger.Debug("async task started", "task_id", t.id, "method", spec.Method(), "url", spec.URL())

	return t, nil
}

// Wait blocks until the held task's worker has finished, empties the slot
// and returns the outcome. It returns [ErrNoTask] immediately if the slot is
// empty or another caller is already reaping the task.
func (s *Slot) Wait() (request.Outcome, error) {
	s.mu.Lock()
	t := s.task
	if t == nil || t.reaping {
		s.mu.Unlock()
		return request.Outcome{}, ErrNoTask
	}
	t.reaping = true
	s.mu.Unlock()

	<-t.done

	s.mu.Lock()
	s.task = nil
	s.mu.Unlock()

	s.logger.Debug("async task reaped", "task_id", t.id)

	return t.outcome, nil
}

// Busy reports whether a task currently occupies the slot.
func (s *Slot) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.task != nil
}

// Live reports how many worker goroutines are running. It never exceeds 1.
func (s *Slot) Live() int {
	return int(s.live.Load())
}

// Option is a functional option for [NewSlot].
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for task lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
