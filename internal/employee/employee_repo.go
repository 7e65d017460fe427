package employee

import (
	"context"
	"database/sql"
	"strings"

	"go-leave/internal/shared/scope"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	Save(ctx context.Context, e *Employee) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	// FindByIDForUpdate locks the employee row until the surrounding tx ends.
	FindByIDForUpdate(ctx context.Context, id string) (*Employee, error)
	FindAll(ctx context.Context, page, pageSize int) ([]Employee, int64, error)
	FindManagers(ctx context.Context, name string, limit int) ([]Employee, error)
	FindFirstByRole(ctx context.Context, role Role) (*Employee, error)
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

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *repository) Save(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Omit(clause.Associations).Save(e).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).
		Preload("Manager").
		Scopes(scope.NotDeleted).
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Scopes(scope.NotDeleted).
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindAll(ctx context.Context, page, pageSize int) ([]Employee, int64, error) {
	var total int64
	if err := r.conn(ctx).
		Model(&Employee{}).
		Scopes(scope.NotDeleted).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var employees []Employee
	err := r.conn(ctx).
		Preload("Manager").
		Scopes(scope.NotDeleted, scope.Paginate(page, pageSize)).
		Order("created_at ASC, id ASC").
		Find(&employees).Error
	return employees, total, err
}

func (r *repository) FindManagers(ctx context.Context, name string, limit int) ([]Employee, error) {
	db := r.conn(ctx).
		Scopes(scope.NotDeleted).
		Where("role IN ?", []Role{RoleManager, RoleHRAdmin})

	if name != "" {
		db = db.Where("LOWER(first_name || ' ' || last_name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var managers []Employee
	err := db.Order("created_at ASC, id ASC").Limit(limit).Find(&managers).Error
	return managers, err
}

func (r *repository) FindFirstByRole(ctx context.Context, role Role) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).
		Scopes(scope.NotDeleted).
		Where("role = ?", role).
		Order("created_at ASC, id ASC").
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}
