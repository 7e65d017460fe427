package leave

import (
	"time"

	"go-leave/internal/employee"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s.Valid() && s != StatusPending
}

// LeaveApplication is created PENDING and changes status exactly once.
// ManagerID is the employee's manager at creation time and is never re-resolved.
type LeaveApplication struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID          `gorm:"type:uuid;not null;index:idx_leave_applications_employee_dates"`
	Employee   *employee.Employee `gorm:"foreignKey:EmployeeID;references:ID"`
	ManagerID  *uuid.UUID         `gorm:"type:uuid;index:idx_leave_applications_manager_status"`
	Manager    *employee.Employee `gorm:"foreignKey:ManagerID;references:ID"`

	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_applications_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_applications_employee_dates"`
	WorkDays  int       `gorm:"type:int;not null"`
	Reason    string    `gorm:"type:text;not null;default:''"`

	Status          Status `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_applications_manager_status"`
	BalanceRestored bool   `gorm:"not null;default:false"`

	DecidedBy *uuid.UUID `gorm:"type:uuid"`
	DecidedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveApplication) TableName() string {
	return "leave_applications"
}
