package leave_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openLeaveDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&employee.Employee{}, &leave.LeaveApplication{}, &kafka.OutboxEvent{}))
	return db
}

func seedEmployee(t *testing.T, db *gorm.DB, name string, role employee.Role, available int, manager *employee.Employee) *employee.Employee {
	t.Helper()
	e := &employee.Employee{
		ID:              uuid.New(),
		FirstName:       name,
		LastName:        "Test",
		Role:            role,
		TotalLeaves:     15,
		AvailableLeaves: available,
	}
	if manager != nil {
		e.ManagerID = &manager.ID
	}
	require.NoError(t, employee.NewRepository(db).Create(context.Background(), e))
	return e
}

func seedLeave(t *testing.T, repo leave.Repository, owner *employee.Employee, start, end string, status leave.Status) *leave.LeaveApplication {
	t.Helper()
	l := &leave.LeaveApplication{
		ID:         uuid.New(),
		EmployeeID: owner.ID,
		ManagerID:  owner.ManagerID,
		StartDate:  date(start),
		EndDate:    date(end),
		WorkDays:   1,
		Status:     status,
	}
	require.NoError(t, repo.Create(context.Background(), l))
	return l
}

func TestRepository_FindOverlapping(t *testing.T) {
	db := openLeaveDB(t)
	repo := leave.NewRepository(db)
	ctx := context.Background()

	boss := seedEmployee(t, db, "Boss", employee.RoleManager, 15, nil)
	jane := seedEmployee(t, db, "Jane", employee.RoleEmployee, 15, boss)
	john := seedEmployee(t, db, "John", employee.RoleEmployee, 15, boss)

	pending := seedLeave(t, repo, jane, "2026-03-09", "2026-03-13", leave.StatusPending)
	seedLeave(t, repo, jane, "2026-03-16", "2026-03-17", leave.StatusRejected)
	seedLeave(t, repo, john, "2026-03-09", "2026-03-13", leave.StatusApproved)

	excluded := []leave.Status{leave.StatusRejected, leave.StatusCancelled}

	tests := []struct {
		name      string
		start     string
		end       string
		wantCount int
	}{
		{name: "touches last day", start: "2026-03-13", end: "2026-03-16", wantCount: 1},
		{name: "touches first day", start: "2026-03-05", end: "2026-03-09", wantCount: 1},
		{name: "contained", start: "2026-03-10", end: "2026-03-11", wantCount: 1},
		{name: "day before", start: "2026-03-02", end: "2026-03-08", wantCount: 0},
		{name: "rejected range is free", start: "2026-03-16", end: "2026-03-17", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindOverlapping(ctx, jane.ID.String(), date(tt.start), date(tt.end), excluded)
			require.NoError(t, err)
			require.Len(t, got, tt.wantCount)
			if tt.wantCount == 1 {
				assert.Equal(t, pending.ID, got[0].ID)
			}
		})
	}

	t.Run("no exclusions include rejected", func(t *testing.T) {
		got, err := repo.FindOverlapping(ctx, jane.ID.String(), date("2026-03-16"), date("2026-03-17"), nil)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestRepository_Listing(t *testing.T) {
	db := openLeaveDB(t)
	repo := leave.NewRepository(db)
	ctx := context.Background()

	boss := seedEmployee(t, db, "Boss", employee.RoleManager, 15, nil)
	jane := seedEmployee(t, db, "Jane", employee.RoleEmployee, 15, boss)
	solo := seedEmployee(t, db, "Solo", employee.RoleEmployee, 15, nil)

	seedLeave(t, repo, jane, "2026-03-02", "2026-03-02", leave.StatusApproved)
	seedLeave(t, repo, jane, "2026-03-09", "2026-03-09", leave.StatusPending)
	latest := seedLeave(t, repo, jane, "2026-03-16", "2026-03-16", leave.StatusPending)
	seedLeave(t, repo, solo, "2026-03-03", "2026-03-03", leave.StatusPending)

	t.Run("by employee newest first with paging", func(t *testing.T) {
		got, total, err := repo.FindByEmployee(ctx, jane.ID.String(), 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, got, 2)
		assert.Equal(t, latest.ID, got[0].ID)
		require.NotNil(t, got[0].Employee)
		assert.Equal(t, "Jane Test", got[0].Employee.FullName())
		require.NotNil(t, got[0].Manager)
		assert.Equal(t, boss.ID, got[0].Manager.ID)

		second, _, err := repo.FindByEmployee(ctx, jane.ID.String(), 2, 2)
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, date("2026-03-02"), second[0].StartDate.UTC())
	})

	t.Run("by manager uses snapshot", func(t *testing.T) {
		got, total, err := repo.FindByManager(ctx, boss.ID.String(), 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, got, 3)
	})

	t.Run("by status", func(t *testing.T) {
		got, total, err := repo.FindByStatus(ctx, leave.StatusPending, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		for _, l := range got {
			assert.Equal(t, leave.StatusPending, l.Status)
		}

		all, total, err := repo.FindByStatus(ctx, "", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, all, 4)
	})
}

func TestRepository_UpdateAndFind(t *testing.T) {
	db := openLeaveDB(t)
	repo := leave.NewRepository(db)
	ctx := context.Background()

	boss := seedEmployee(t, db, "Boss", employee.RoleManager, 15, nil)
	jane := seedEmployee(t, db, "Jane", employee.RoleEmployee, 15, boss)
	l := seedLeave(t, repo, jane, "2026-03-02", "2026-03-06", leave.StatusPending)

	decidedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l.Status = leave.StatusRejected
	l.BalanceRestored = true
	l.DecidedBy = &boss.ID
	l.DecidedAt = &decidedAt
	require.NoError(t, repo.Update(ctx, l))

	got, err := repo.FindByID(ctx, l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, got.Status)
	assert.True(t, got.BalanceRestored)
	require.NotNil(t, got.DecidedBy)
	assert.Equal(t, boss.ID, *got.DecidedBy)

	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	stillFifteen, err := employee.NewRepository(db).FindByID(ctx, jane.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 15, stillFifteen.AvailableLeaves, "saving an application never writes the employee")
}

func TestRepository_FindByIDForUpdateLocksRowInTx(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "leave_applications" WHERE id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "work_days"}).
			AddRow(id.String(), "PENDING", 5))
	mock.ExpectRollback()

	tx, err := sqlDB.Begin()
	require.NoError(t, err)

	got, err := leave.NewRepository(db).WithTx(tx).FindByIDForUpdate(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, leave.StatusPending, got.Status)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
