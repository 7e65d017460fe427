package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/leaveaudit"
	leaveauditerrors "go-leave/internal/leaveaudit/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ErrRecordFailed stops the consumer when an event cannot be stored. The
// offset stays uncommitted and nothing after it is committed, so the group
// resumes from that message once the consumer is restarted.
var ErrRecordFailed = errors.New("leave lifecycle event could not be recorded")

const recordAttempts = 3

// recordRetryDelay grows linearly with each attempt.
var recordRetryDelay = 100 * time.Millisecond

// ConsumeLeaveLifecycle projects leave lifecycle events into the audit log.
// Offsets are committed after a successful insert, for redelivered events and
// for messages that can never be stored. It returns nil when ctx ends and
// ErrRecordFailed when storage keeps failing.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader MessageReader,
	auditService leaveaudit.Service,
	logger *zap.Logger,
) error {
	if logger == nil {
		logger = zap.L()
	}
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return nil
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		if err := handleLeaveLifecycle(ctx, msg, auditService, log); err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped", zap.Int64("uncommitted_offset", msg.Offset))
				return nil
			}
			log.Error("leave lifecycle consumer halted",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			return fmt.Errorf("%w: partition %d offset %d: %v", ErrRecordFailed, msg.Partition, msg.Offset, err)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
			continue
		}
	}
}

// handleLeaveLifecycle returns nil when the message offset may be committed.
func handleLeaveLifecycle(
	ctx context.Context,
	msg kafkago.Message,
	auditService leaveaudit.Service,
	log *zap.Logger,
) error {
	var event events.LeaveLifecycleEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode leave lifecycle event failed",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return nil
	}

	var err error
	for attempt := 1; attempt <= recordAttempts; attempt++ {
		err = auditService.Record(ctx, event)
		switch {
		case err == nil:
			log.Info("leave lifecycle event recorded",
				zap.String("event_id", event.EventID),
				zap.String("event_type", event.EventType),
				zap.String("leave_id", event.LeaveID),
			)
			return nil
		case errors.Is(err, leaveauditerrors.ErrDuplicateEvent):
			log.Warn("leave lifecycle event already recorded, skipping",
				zap.String("event_id", event.EventID),
			)
			return nil
		case errors.Is(err, leaveauditerrors.ErrInvalidEvent):
			log.Error("leave lifecycle event invalid, skipping",
				zap.String("event_id", event.EventID),
				zap.Int64("offset", msg.Offset),
			)
			return nil
		}

		log.Warn("record leave lifecycle event failed",
			zap.String("event_id", event.EventID),
			zap.String("leave_id", event.LeaveID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt == recordAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * recordRetryDelay):
		}
	}
	return err
}
