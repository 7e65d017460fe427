package app

import (
	"database/sql"
	"errors"

	"go-leave/internal/config"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/leaveaudit"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/migration"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seed rows shared with the postgres seed migrations.
var (
	SeedHRAdminID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	SeedManagerID = uuid.MustParse("00000000-0000-0000-0000-000000000002")

	// SeedEmployeeIDs report to SeedManagerID.
	SeedEmployeeIDs = []uuid.UUID{
		uuid.MustParse("00000000-0000-0000-0000-000000000003"),
		uuid.MustParse("00000000-0000-0000-0000-000000000004"),
		uuid.MustParse("00000000-0000-0000-0000-000000000005"),
	}
)

// Migrate runs goose migrations on postgres. sqlite, used for local runs,
// is built from the gorm models and seeded the same way.
func Migrate(cfg config.DatabaseConfig, gormDB *gorm.DB, sqlDB *sql.DB) error {
	if cfg.Driver != "sqlite" {
		return migration.Up(sqlDB)
	}

	if err := gormDB.AutoMigrate(
		&employee.Employee{},
		&leave.LeaveApplication{},
		&kafka.OutboxEvent{},
		&leaveaudit.AuditLog{},
	); err != nil {
		return err
	}
	return seedEmployees(gormDB)
}

func seedEmployees(db *gorm.DB) error {
	seeds := []employee.Employee{
		{ID: SeedHRAdminID, FirstName: "HR", LastName: "Admin", Role: employee.RoleHRAdmin},
		{ID: SeedManagerID, FirstName: "Default", LastName: "Manager", Role: employee.RoleManager, ManagerID: &SeedHRAdminID, TotalLeaves: 15, AvailableLeaves: 15},
		{ID: SeedEmployeeIDs[0], FirstName: "Ana", LastName: "Reyes", Role: employee.RoleEmployee, ManagerID: &SeedManagerID, TotalLeaves: 15, AvailableLeaves: 15},
		{ID: SeedEmployeeIDs[1], FirstName: "Ben", LastName: "Cruz", Role: employee.RoleEmployee, ManagerID: &SeedManagerID, TotalLeaves: 15, AvailableLeaves: 15},
		{ID: SeedEmployeeIDs[2], FirstName: "Carla", LastName: "Santos", Role: employee.RoleEmployee, ManagerID: &SeedManagerID, TotalLeaves: 15, AvailableLeaves: 15},
	}

	for _, seed := range seeds {
		var existing employee.Employee
		err := db.First(&existing, "id = ?", seed.ID).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Omit("Manager").Create(&seed).Error; err != nil {
			return err
		}
	}
	return nil
}
