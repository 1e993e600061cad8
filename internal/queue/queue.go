package queue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"word-aligner/internal/retry"
)

// TaskType enumerates supported task categories.
type TaskType string

const (
	TaskTypeAlignBatch TaskType = "align_batch"
)

// Task represents a unit of work shared between the API and workers.
type Task struct {
	ID          uuid.UUID
	Type        TaskType
	Payload     []byte
	Attempts    int
	MaxAttempts int
	NotBefore   time.Time
}

type Handler func(context.Context, Task) error

// Queue exposes a minimal contract to enqueue and consume tasks.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Worker(ctx context.Context, taskType TaskType, handler Handler) error
}

// EnqueueWithRetry attempts to enqueue with retries and exponential backoff.
func EnqueueWithRetry(ctx context.Context, q Queue, task Task, attempts int, base time.Duration) error {
	return retry.Do(ctx, attempts, base, func() error {
		return q.Enqueue(ctx, task)
	})
}
