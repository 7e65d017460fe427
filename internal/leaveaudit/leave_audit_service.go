package leaveaudit

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-leave/internal/events"
	leaveauditerrors "go-leave/internal/leaveaudit/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	// Record stores one lifecycle event. A redelivered event returns ErrDuplicateEvent.
	Record(ctx context.Context, event events.LeaveLifecycleEvent) error
	GetByLeave(ctx context.Context, leaveID string) ([]AuditLogResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leaveaudit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaveaudit.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Record(ctx context.Context, event events.LeaveLifecycleEvent) error {
	log, err := toAuditLog(event)
	if err != nil {
		s.logger.Warn("record leave audit rejected event",
			zap.String("event_id", event.EventID),
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
		return err
	}

	if err := s.repo.Create(ctx, log); err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, leaveauditerrors.ErrDuplicateEvent) {
			s.logger.Debug("record leave audit duplicate event", zap.String("event_id", event.EventID))
			return mapped
		}
		s.logger.Error("record leave audit persist failed",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
		return mapped
	}

	s.logger.Info("leave audit recorded",
		zap.String("event_id", event.EventID),
		zap.String("leave_id", event.LeaveID),
		zap.String("to_status", event.ToStatus),
	)
	return nil
}

func (s *service) GetByLeave(ctx context.Context, leaveID string) ([]AuditLogResponse, error) {
	if _, err := uuid.Parse(leaveID); err != nil {
		return nil, leaveauditerrors.ErrInvalidLeaveID
	}

	logs, err := s.repo.FindByLeave(ctx, leaveID)
	if err != nil {
		s.logger.Error("get leave audit failed", zap.String("leave_id", leaveID), zap.Error(err))
		return nil, err
	}

	resp := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		resp = append(resp, mapToResponse(l))
	}
	return resp, nil
}

func toAuditLog(event events.LeaveLifecycleEvent) (*AuditLog, error) {
	eventID, err := uuid.Parse(event.EventID)
	if err != nil {
		return nil, leaveauditerrors.ErrInvalidEvent
	}
	leaveID, err := uuid.Parse(event.LeaveID)
	if err != nil {
		return nil, leaveauditerrors.ErrInvalidEvent
	}
	employeeID, err := uuid.Parse(event.EmployeeID)
	if err != nil {
		return nil, leaveauditerrors.ErrInvalidEvent
	}
	if strings.TrimSpace(event.ToStatus) == "" || event.OccurredAt.IsZero() {
		return nil, leaveauditerrors.ErrInvalidEvent
	}

	log := &AuditLog{
		ID:                 uuid.New(),
		EventID:            eventID,
		EventType:          event.EventType,
		LeaveApplicationID: leaveID,
		EmployeeID:         employeeID,
		ToStatus:           event.ToStatus,
		WorkDays:           event.WorkDays,
		AvailableLeaves:    event.AvailableLeaves,
		OccurredAt:         event.OccurredAt.UTC(),
	}
	if actorID, err := uuid.Parse(event.ActorID); err == nil {
		log.ActorID = &actorID
	}
	if event.FromStatus != "" {
		from := event.FromStatus
		log.FromStatus = &from
	}
	return log, nil
}

func mapToResponse(l AuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		EventID:         l.EventID.String(),
		EventType:       l.EventType,
		LeaveID:         l.LeaveApplicationID.String(),
		EmployeeID:      l.EmployeeID.String(),
		FromStatus:      l.FromStatus,
		ToStatus:        l.ToStatus,
		WorkDays:        l.WorkDays,
		AvailableLeaves: l.AvailableLeaves,
		OccurredAt:      l.OccurredAt.UTC().Format(time.RFC3339),
	}
	if l.ActorID != nil {
		actor := l.ActorID.String()
		resp.ActorID = &actor
	}
	return resp
}
