package leaveaudit_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/leaveaudit"
	leaveauditerrors "go-leave/internal/leaveaudit/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupAuditService(t *testing.T) leaveaudit.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+dbName(t)+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&leaveaudit.AuditLog{}))

	return leaveaudit.NewService(leaveaudit.NewRepository(db), zap.NewNop())
}

func dbName(t *testing.T) string {
	return strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
}

func lifecycleEvent(leaveID string, eventType, from, to string, occurredAt time.Time) events.LeaveLifecycleEvent {
	return events.LeaveLifecycleEvent{
		EventID:         uuid.NewString(),
		EventType:       eventType,
		LeaveID:         leaveID,
		EmployeeID:      uuid.NewString(),
		ActorID:         uuid.NewString(),
		FromStatus:      from,
		ToStatus:        to,
		StartDate:       "2026-03-02",
		EndDate:         "2026-03-06",
		WorkDays:        5,
		AvailableLeaves: 10,
		OccurredAt:      occurredAt,
	}
}

func TestService_Record(t *testing.T) {
	ctx := context.Background()
	occurred := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("stores event and lists it by leave", func(t *testing.T) {
		svc := setupAuditService(t)
		leaveID := uuid.NewString()

		created := lifecycleEvent(leaveID, events.LeaveCreated, "", "PENDING", occurred)
		rejected := lifecycleEvent(leaveID, events.LeaveStatusChanged, "PENDING", "REJECTED", occurred.Add(time.Hour))
		rejected.AvailableLeaves = 15

		require.NoError(t, svc.Record(ctx, rejected))
		require.NoError(t, svc.Record(ctx, created))
		require.NoError(t, svc.Record(ctx, lifecycleEvent(uuid.NewString(), events.LeaveCreated, "", "PENDING", occurred)))

		got, err := svc.GetByLeave(ctx, leaveID)
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, created.EventID, got[0].EventID)
		assert.Nil(t, got[0].FromStatus)
		assert.Equal(t, "PENDING", got[0].ToStatus)
		assert.Equal(t, "2026-03-01T08:00:00Z", got[0].OccurredAt)

		assert.Equal(t, rejected.EventID, got[1].EventID)
		require.NotNil(t, got[1].FromStatus)
		assert.Equal(t, "PENDING", *got[1].FromStatus)
		assert.Equal(t, 15, got[1].AvailableLeaves)
		require.NotNil(t, got[1].ActorID)
		assert.Equal(t, rejected.ActorID, *got[1].ActorID)
	})

	t.Run("redelivered event is a duplicate", func(t *testing.T) {
		svc := setupAuditService(t)
		event := lifecycleEvent(uuid.NewString(), events.LeaveCreated, "", "PENDING", occurred)

		require.NoError(t, svc.Record(ctx, event))
		err := svc.Record(ctx, event)
		assert.ErrorIs(t, err, leaveauditerrors.ErrDuplicateEvent)

		got, err := svc.GetByLeave(ctx, event.LeaveID)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("malformed event is rejected", func(t *testing.T) {
		svc := setupAuditService(t)

		tests := []struct {
			name   string
			mutate func(e *events.LeaveLifecycleEvent)
		}{
			{"bad event id", func(e *events.LeaveLifecycleEvent) { e.EventID = "nope" }},
			{"bad leave id", func(e *events.LeaveLifecycleEvent) { e.LeaveID = "" }},
			{"bad employee id", func(e *events.LeaveLifecycleEvent) { e.EmployeeID = "x" }},
			{"missing to status", func(e *events.LeaveLifecycleEvent) { e.ToStatus = " " }},
			{"missing occurred at", func(e *events.LeaveLifecycleEvent) { e.OccurredAt = time.Time{} }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				event := lifecycleEvent(uuid.NewString(), events.LeaveCreated, "", "PENDING", occurred)
				tt.mutate(&event)
				assert.ErrorIs(t, svc.Record(ctx, event), leaveauditerrors.ErrInvalidEvent)
			})
		}
	})
}

func TestService_GetByLeaveInvalidID(t *testing.T) {
	svc := setupAuditService(t)

	_, err := svc.GetByLeave(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, leaveauditerrors.ErrInvalidLeaveID)
}
