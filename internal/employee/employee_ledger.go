package employee

import (
	"context"
	"database/sql"

	employeeerrors "go-leave/internal/employee/errors"

	"go.uber.org/zap"
)

// Ledger is the only writer of an employee's leave balance. Callers pass an
// employee read with FindByIDForUpdate inside the same tx the ledger is bound to.
type Ledger struct {
	repo   Repository
	logger *zap.Logger
}

func NewLedger(repo Repository, logger ...*zap.Logger) *Ledger {
	l := zap.L().Named("employee.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.ledger")
	}
	return &Ledger{repo: repo, logger: l}
}

func (l *Ledger) WithTx(tx *sql.Tx) *Ledger {
	return &Ledger{repo: l.repo.WithTx(tx), logger: l.logger}
}

// Deduct consumes days from the available balance. The employee is left
// untouched when the balance is insufficient or the write fails.
func (l *Ledger) Deduct(ctx context.Context, e *Employee, days int) error {
	if days < 0 {
		return employeeerrors.ErrInvalidLeaveDays
	}
	if days > e.AvailableLeaves {
		l.logger.Warn("deduct leave insufficient balance",
			zap.String("employee_id", e.ID.String()),
			zap.Int("requested", days),
			zap.Int("available", e.AvailableLeaves),
		)
		return employeeerrors.ErrInsufficientBalance
	}

	e.AvailableLeaves -= days
	if err := l.repo.Save(ctx, e); err != nil {
		e.AvailableLeaves += days
		return mapRepositoryError(err)
	}

	l.logger.Debug("leave deducted",
		zap.String("employee_id", e.ID.String()),
		zap.Int("days", days),
		zap.Int("available", e.AvailableLeaves),
	)
	return nil
}

// Restore gives days back, never exceeding TotalLeaves.
func (l *Ledger) Restore(ctx context.Context, e *Employee, days int) error {
	if days < 0 {
		return employeeerrors.ErrInvalidLeaveDays
	}

	before := e.AvailableLeaves
	restored := before + days
	if restored > e.TotalLeaves {
		l.logger.Warn("restore leave clamped to total",
			zap.String("employee_id", e.ID.String()),
			zap.Int("days", days),
			zap.Int("available", before),
			zap.Int("total", e.TotalLeaves),
		)
		restored = e.TotalLeaves
	}

	e.AvailableLeaves = restored
	if err := l.repo.Save(ctx, e); err != nil {
		e.AvailableLeaves = before
		return mapRepositoryError(err)
	}

	l.logger.Debug("leave restored",
		zap.String("employee_id", e.ID.String()),
		zap.Int("days", days),
		zap.Int("available", e.AvailableLeaves),
	)
	return nil
}

// AdjustTotal changes the annual grant and shifts the available balance by the
// same delta, so leave already consumed stays consumed.
func (l *Ledger) AdjustTotal(ctx context.Context, e *Employee, newTotal int) error {
	delta := newTotal - e.TotalLeaves
	if newTotal < 0 || e.AvailableLeaves+delta < 0 {
		l.logger.Warn("adjust total leave rejected",
			zap.String("employee_id", e.ID.String()),
			zap.Int("total", e.TotalLeaves),
			zap.Int("new_total", newTotal),
			zap.Int("available", e.AvailableLeaves),
		)
		return employeeerrors.ErrInvalidTotalAdjustment
	}

	oldTotal, oldAvailable := e.TotalLeaves, e.AvailableLeaves
	e.TotalLeaves = newTotal
	e.AvailableLeaves += delta
	if err := l.repo.Save(ctx, e); err != nil {
		e.TotalLeaves, e.AvailableLeaves = oldTotal, oldAvailable
		return mapRepositoryError(err)
	}

	l.logger.Info("total leave adjusted",
		zap.String("employee_id", e.ID.String()),
		zap.Int("old_total", oldTotal),
		zap.Int("new_total", newTotal),
		zap.Int("available", e.AvailableLeaves),
	)
	return nil
}
