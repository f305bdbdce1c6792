package port

import (
	"context"
	"errors"
	"time"
)

// Task is a background job: a stable type name plus an opaque payload.
type Task struct {
	Type    string
	Payload []byte
}

// Handler processes a Task. A non-nil error asks the backend to retry, so
// handlers must be idempotent.
type Handler func(ctx context.Context, task Task) error

// EnqueueOption controls enqueue behavior. Zero values mean "backend default".
type EnqueueOption struct {
	Queue     string        // logical queue name
	MaxRetry  int           // retries before the task is archived
	Timeout   time.Duration // per-attempt processing budget
	UniqueTTL time.Duration // drop duplicates of the same type+payload within this window
}

// Client enqueues tasks for background processing.
type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

// ErrDuplicateTask is returned by Enqueue when an identical task is still
// held under its UniqueTTL window.
var ErrDuplicateTask = errors.New("queue: duplicate task")

// Server runs the workers. Run blocks until ctx is canceled and drains
// in-flight tasks before returning.
type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
}
