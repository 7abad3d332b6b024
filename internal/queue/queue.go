// Package queue delivers moderation units of work to workers. A unit of work
// carries only the comment id; workers re-read durable state on delivery, so
// redelivery and stale payloads are harmless.
package queue

import (
	"context"

	"github.com/google/uuid"
)

// Queue enqueues a moderation unit of work for a persisted comment.
type Queue interface {
	Enqueue(ctx context.Context, commentID uuid.UUID) error
}

// Handler processes one delivered unit of work. A nil return acknowledges the
// unit; an error signals a retryable failure and the queue redelivers it per
// the backoff schedule, dead-lettering once the schedule is exhausted.
type Handler func(ctx context.Context, commentID uuid.UUID) error

// DeadLetterFunc is invoked when a unit of work exhausts its redeliveries.
type DeadLetterFunc func(commentID uuid.UUID, deliveries int, lastErr error)
