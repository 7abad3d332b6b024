package queue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryUnit struct {
	commentID  uuid.UUID
	deliveries int
}

// Memory is an in-process Queue backed by a buffered channel and a worker
// pool. It mirrors the broker semantics the workers rely on: at-least-once
// delivery, timer-based redelivery on failure, and dead-lettering after the
// schedule is exhausted. Used when no NATS server is configured, and in
// tests.
type Memory struct {
	units    chan memoryUnit
	schedule []time.Duration
	dead     DeadLetterFunc

	workers sync.WaitGroup
	timers  sync.WaitGroup
}

// MemoryOption configures a Memory queue.
type MemoryOption func(*Memory)

// WithRetrySchedule overrides the redelivery delays.
func WithRetrySchedule(schedule []time.Duration) MemoryOption {
	return func(q *Memory) { q.schedule = schedule }
}

// WithDeadLetter sets the callback invoked when a unit exhausts redelivery.
func WithDeadLetter(fn DeadLetterFunc) MemoryOption {
	return func(q *Memory) { q.dead = fn }
}

// NewMemory returns an in-process queue with the given buffer size.
func NewMemory(buffer int, opts ...MemoryOption) *Memory {
	q := &Memory{
		units:    make(chan memoryUnit, buffer),
		schedule: DefaultRetrySchedule,
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.dead == nil {
		q.dead = func(commentID uuid.UUID, deliveries int, lastErr error) {
			slog.Error("moderation unit dead-lettered",
				"comment_id", commentID, "deliveries", deliveries, "error", lastErr)
		}
	}
	return q
}

// Enqueue implements Queue.
func (q *Memory) Enqueue(ctx context.Context, commentID uuid.UUID) error {
	select {
	case q.units <- memoryUnit{commentID: commentID, deliveries: 0}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start launches concurrency workers consuming units until ctx is cancelled.
// Cancellation stops intake; in-flight handlers run to completion.
func (q *Memory) Start(ctx context.Context, concurrency int, handler Handler) {
	for i := 0; i < concurrency; i++ {
		q.workers.Add(1)
		go func() {
			defer q.workers.Done()
			q.consume(ctx, handler)
		}()
	}
}

// Wait blocks until all workers have stopped and pending redelivery timers
// have fired or been abandoned.
func (q *Memory) Wait() {
	q.workers.Wait()
	q.timers.Wait()
}

func (q *Memory) consume(ctx context.Context, handler Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		case unit := <-q.units:
			unit.deliveries++
			err := handler(ctx, unit.commentID)
			if err == nil {
				continue
			}

			delay, ok := retryDelay(q.schedule, unit.deliveries)
			if !ok {
				q.dead(unit.commentID, unit.deliveries, err)
				continue
			}

			slog.Warn("moderation unit failed, scheduling redelivery",
				"comment_id", unit.commentID, "deliveries", unit.deliveries, "delay", delay, "error", err)
			q.redeliver(ctx, unit, delay)
		}
	}
}

func (q *Memory) redeliver(ctx context.Context, unit memoryUnit, delay time.Duration) {
	q.timers.Add(1)
	time.AfterFunc(delay, func() {
		defer q.timers.Done()
		select {
		case q.units <- unit:
		case <-ctx.Done():
		}
	})
}
