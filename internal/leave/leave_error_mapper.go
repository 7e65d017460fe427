package leave

import (
	"errors"

	employeeerrors "go-leave/internal/employee/errors"
	leaveerrors "go-leave/internal/leave/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23514" {
		switch pgErr.ConstraintName {
		case "chk_leave_dates":
			return leaveerrors.ErrInvertedRange
		case "chk_leave_work_days":
			return leaveerrors.ErrZeroWorkdays
		case "chk_leave_status":
			return leaveerrors.ErrInvalidStatus
		}
	}

	return err
}

func mapEmployeeError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}
	return err
}
