package leaveaudit

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is one projected leave lifecycle event. EventID is unique so
// redelivered messages are stored once.
type AuditLog struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EventID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_leave_audit_event"`
	EventType          string     `gorm:"type:varchar(100);not null"`
	LeaveApplicationID uuid.UUID  `gorm:"type:uuid;not null;index:idx_leave_audit_logs_application"`
	EmployeeID         uuid.UUID  `gorm:"type:uuid;not null"`
	ActorID            *uuid.UUID `gorm:"type:uuid"`
	FromStatus         *string    `gorm:"type:varchar(20)"`
	ToStatus           string     `gorm:"type:varchar(20);not null"`
	WorkDays           int        `gorm:"type:int;not null"`
	AvailableLeaves    int        `gorm:"type:int;not null"`
	OccurredAt         time.Time  `gorm:"not null;index:idx_leave_audit_logs_application"`
	CreatedAt          time.Time
}

func (AuditLog) TableName() string {
	return "leave_audit_logs"
}
