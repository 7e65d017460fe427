package leaveaudit

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_audit_repo.go -destination=mock/leave_audit_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, log *AuditLog) error
	FindByLeave(ctx context.Context, leaveID string) ([]AuditLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, log *AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) FindByLeave(ctx context.Context, leaveID string) ([]AuditLog, error) {
	var logs []AuditLog
	err := r.db.WithContext(ctx).
		Where("leave_application_id = ?", leaveID).
		Order("occurred_at ASC, created_at ASC").
		Find(&logs).Error
	return logs, err
}
