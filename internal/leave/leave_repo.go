package leave

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/shared/scope"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveApplication) error
	Update(ctx context.Context, l *LeaveApplication) error
	FindByID(ctx context.Context, id string) (*LeaveApplication, error)
	// FindByIDForUpdate locks the application row until the surrounding tx ends.
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveApplication, error)
	// FindOverlapping returns the employee's applications sharing at least one
	// day with [start, end], skipping the given statuses.
	FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeStatuses []Status) ([]LeaveApplication, error)
	FindByEmployee(ctx context.Context, employeeID string, page, pageSize int) ([]LeaveApplication, int64, error)
	FindByManager(ctx context.Context, managerID string, page, pageSize int) ([]LeaveApplication, int64, error)
	// FindByStatus lists every application when status is empty.
	FindByStatus(ctx context.Context, status Status, page, pageSize int) ([]LeaveApplication, int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return scope.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, l *LeaveApplication) error {
	return r.conn(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *repository) Update(ctx context.Context, l *LeaveApplication) error {
	return r.conn(ctx).Omit(clause.Associations).Save(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveApplication, error) {
	var l LeaveApplication
	err := r.conn(ctx).
		Preload("Employee").
		Preload("Manager").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveApplication, error) {
	var l LeaveApplication
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeStatuses []Status) ([]LeaveApplication, error) {
	db := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("NOT (end_date < ? OR start_date > ?)", start, end)

	if len(excludeStatuses) > 0 {
		db = db.Where("status NOT IN ?", excludeStatuses)
	}

	var leaves []LeaveApplication
	err := db.Order("start_date ASC").Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string, page, pageSize int) ([]LeaveApplication, int64, error) {
	return r.findPaged(ctx, page, pageSize, func(db *gorm.DB) *gorm.DB {
		return db.Where("employee_id = ?", employeeID)
	})
}

func (r *repository) FindByManager(ctx context.Context, managerID string, page, pageSize int) ([]LeaveApplication, int64, error) {
	return r.findPaged(ctx, page, pageSize, func(db *gorm.DB) *gorm.DB {
		return db.Where("manager_id = ?", managerID)
	})
}

func (r *repository) FindByStatus(ctx context.Context, status Status, page, pageSize int) ([]LeaveApplication, int64, error) {
	return r.findPaged(ctx, page, pageSize, func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("status = ?", status)
	})
}

func (r *repository) findPaged(ctx context.Context, page, pageSize int, filter func(*gorm.DB) *gorm.DB) ([]LeaveApplication, int64, error) {
	var total int64
	if err := r.conn(ctx).
		Model(&LeaveApplication{}).
		Scopes(filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []LeaveApplication
	err := r.conn(ctx).
		Preload("Employee").
		Preload("Manager").
		Scopes(filter, scope.Paginate(page, pageSize)).
		Order("start_date DESC, created_at DESC").
		Find(&leaves).Error
	return leaves, total, err
}
