package leaveaudit

import (
	"errors"
	"strings"

	leaveauditerrors "go-leave/internal/leaveaudit/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueEventConstraint = "uq_leave_audit_event"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == uniqueEventConstraint {
			return leaveauditerrors.ErrDuplicateEvent
		}
		return err
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unique constraint failed") && strings.Contains(errMsg, "event_id") {
		return leaveauditerrors.ErrDuplicateEvent
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniqueEventConstraint) {
		return leaveauditerrors.ErrDuplicateEvent
	}

	return err
}
