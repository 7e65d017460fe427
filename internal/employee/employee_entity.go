package employee

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleHRAdmin  Role = "HR_ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleHRAdmin:
		return true
	}
	return false
}

// CanApprove reports whether the role may hold approval authority over others.
func (r Role) CanApprove() bool {
	return r == RoleManager || r == RoleHRAdmin
}

type Employee struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FirstName string     `gorm:"type:varchar(100);not null"`
	LastName  string     `gorm:"type:varchar(100);not null"`
	Role      Role       `gorm:"type:varchar(20);not null;index:idx_employees_role"`
	ManagerID *uuid.UUID `gorm:"type:uuid;index:idx_employees_manager"`
	Manager   *Employee  `gorm:"foreignKey:ManagerID;references:ID"`

	// 0 <= AvailableLeaves <= TotalLeaves. Only Ledger mutates these.
	TotalLeaves     int `gorm:"type:int;not null;default:0"`
	AvailableLeaves int `gorm:"type:int;not null;default:0"`

	IsDeleted bool `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// ConsumedLeaves is the share of the grant held by pending or approved applications.
func (e Employee) ConsumedLeaves() int {
	return e.TotalLeaves - e.AvailableLeaves
}
