package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryDelay(t *testing.T) {
	t.Parallel()

	delay, ok := retryDelay(DefaultRetrySchedule, 1)
	assert.True(t, ok)
	assert.Equal(t, time.Second, delay)

	delay, ok = retryDelay(DefaultRetrySchedule, 2)
	assert.True(t, ok)
	assert.Equal(t, 5*time.Second, delay)

	delay, ok = retryDelay(DefaultRetrySchedule, 3)
	assert.True(t, ok)
	assert.Equal(t, 10*time.Second, delay)

	_, ok = retryDelay(DefaultRetrySchedule, 4)
	assert.False(t, ok)
}

func TestMemory_DeliversToHandler(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewMemory(8)
	delivered := make(chan uuid.UUID, 1)
	q.Start(ctx, 2, func(_ context.Context, commentID uuid.UUID) error {
		delivered <- commentID
		return nil
	})

	id := uuid.New()
	require.NoError(t, q.Enqueue(ctx, id))

	select {
	case got := <-delivered:
		assert.Equal(t, id, got)
	case <-time.After(2 * time.Second):
		t.Fatal("unit of work was not delivered")
	}
}

func TestMemory_RedeliversThenSucceeds(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewMemory(8, WithRetrySchedule([]time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}))

	var mu sync.Mutex
	deliveries := 0
	done := make(chan struct{})
	q.Start(ctx, 1, func(_ context.Context, _ uuid.UUID) error {
		mu.Lock()
		defer mu.Unlock()
		deliveries++
		if deliveries < 3 {
			return errors.New("transient store failure")
		}
		close(done)
		return nil
	})

	require.NoError(t, q.Enqueue(ctx, uuid.New()))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("unit of work was not redelivered to success")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, deliveries)
}

func TestMemory_DeadLettersAfterScheduleExhausted(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dead := make(chan int, 1)
	q := NewMemory(8,
		WithRetrySchedule([]time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}),
		WithDeadLetter(func(_ uuid.UUID, deliveries int, lastErr error) {
			assert.Error(t, lastErr)
			dead <- deliveries
		}),
	)

	q.Start(ctx, 1, func(_ context.Context, _ uuid.UUID) error {
		return errors.New("permanent store failure")
	})

	require.NoError(t, q.Enqueue(ctx, uuid.New()))

	select {
	case deliveries := <-dead:
		// Initial delivery plus one per schedule slot.
		assert.Equal(t, 4, deliveries)
	case <-time.After(2 * time.Second):
		t.Fatal("unit of work was not dead-lettered")
	}
}

func TestMemory_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	q := NewMemory(1)
	q.Start(ctx, 1, func(_ context.Context, _ uuid.UUID) error { return nil })

	cancel()

	finished := make(chan struct{})
	go func() {
		q.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop on cancellation")
	}
}
