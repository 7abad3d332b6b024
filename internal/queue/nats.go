package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	streamName      = "COMMENT_MODERATION"
	subjectModerate = "comments.moderate"
	subjectDLQ      = "comments.moderate.dlq"
	durableConsumer = "comment_moderation"
)

// unitPayload is the wire form of a unit of work. Only the comment id
// travels; workers reload current state on delivery.
type unitPayload struct {
	CommentID string `json:"comment_id"`
}

// dlqPayload wraps a dead-lettered unit with its failure context.
type dlqPayload struct {
	CommentID  string `json:"comment_id"`
	Deliveries int    `json:"deliveries"`
	Reason     string `json:"reason"`
}

// NATS is a Queue backed by a JetStream work stream. Delivery is
// at-least-once; failed deliveries are redelivered with the configured
// backoff schedule and dead-lettered to a DLQ subject once it is exhausted.
type NATS struct {
	nc       *nats.Conn
	js       nats.JetStreamContext
	schedule []time.Duration
}

// NewNATS creates the queue and ensures the underlying stream exists.
func NewNATS(nc *nats.Conn) (*NATS, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	q := &NATS{nc: nc, js: js, schedule: DefaultRetrySchedule}
	if err := q.ensureStream(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *NATS) ensureStream() error {
	_, err := q.js.StreamInfo(streamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return err
	}
	_, err = q.js.AddStream(&nats.StreamConfig{
		Name:     streamName,
		Subjects: []string{subjectModerate, subjectDLQ},
		Storage:  nats.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
	})
	return err
}

// Enqueue implements Queue.
func (q *NATS) Enqueue(ctx context.Context, commentID uuid.UUID) error {
	data, err := json.Marshal(unitPayload{CommentID: commentID.String()})
	if err != nil {
		return err
	}
	_, err = q.js.Publish(subjectModerate, data, nats.Context(ctx))
	return err
}

// Consume pulls units of work and hands them to handler until ctx is
// cancelled. Handler errors trigger NakWithDelay per the backoff schedule;
// units delivered more times than the schedule allows are published to the
// DLQ subject and acknowledged.
func (q *NATS) Consume(ctx context.Context, handler Handler) error {
	sub, err := q.js.PullSubscribe(subjectModerate, durableConsumer)
	if err != nil {
		return err
	}
	slog.Info("moderation consumer started", "subject", subjectModerate)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msgs, err := sub.Fetch(1, nats.MaxWait(2*time.Second))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) {
				continue
			}
			return err
		}
		for _, m := range msgs {
			q.handleMsg(ctx, m, handler)
		}
	}
}

func (q *NATS) handleMsg(ctx context.Context, m *nats.Msg, handler Handler) {
	deliveries := 1
	if md, err := m.Metadata(); err == nil {
		deliveries = int(md.NumDelivered)
	}

	var payload unitPayload
	if err := json.Unmarshal(m.Data, &payload); err != nil {
		slog.Warn("bad moderation payload", "error", err)
		_ = m.Ack()
		return
	}
	commentID, err := uuid.Parse(payload.CommentID)
	if err != nil {
		slog.Warn("bad comment id in moderation payload", "comment_id", payload.CommentID, "error", err)
		_ = m.Ack()
		return
	}

	if err := handler(ctx, commentID); err != nil {
		delay, ok := retryDelay(q.schedule, deliveries)
		if !ok {
			q.publishDLQ(commentID, deliveries, err)
			_ = m.Ack()
			return
		}
		slog.Warn("moderation failed, redelivering",
			"comment_id", commentID, "deliveries", deliveries, "delay", delay, "error", err)
		_ = m.NakWithDelay(delay)
		return
	}
	_ = m.Ack()
}

func (q *NATS) publishDLQ(commentID uuid.UUID, deliveries int, cause error) {
	slog.Error("moderation unit dead-lettered",
		"comment_id", commentID, "deliveries", deliveries, "error", cause)
	data, err := json.Marshal(dlqPayload{
		CommentID:  commentID.String(),
		Deliveries: deliveries,
		Reason:     cause.Error(),
	})
	if err != nil {
		return
	}
	if _, err := q.js.Publish(subjectDLQ, data); err != nil {
		slog.Error("failed to publish to DLQ", "comment_id", commentID, "error", err)
	}
}

// ConnectNATS dials the NATS server at url with sane reconnect settings.
func ConnectNATS(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
