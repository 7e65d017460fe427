package leave

import (
	"context"
	"time"

	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/workday"
)

// OverlapFinder is the part of Repository the validator reads.
type OverlapFinder interface {
	FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeStatuses []Status) ([]LeaveApplication, error)
}

// Rejected and cancelled applications no longer hold their days.
var overlapIgnoredStatuses = []Status{StatusRejected, StatusCancelled}

type Validator struct {
	now func() time.Time
}

func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

// Validate checks a requested range for one employee and returns its workday
// count. Checks run in order: missing dates, inverted range, past start,
// zero workdays, then overlap with the employee's live applications.
func (v *Validator) Validate(ctx context.Context, store OverlapFinder, employeeID string, start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, leaveerrors.ErrNullDate
	}

	start, end = workday.Date(start), workday.Date(end)
	if start.After(end) {
		return 0, leaveerrors.ErrInvertedRange
	}
	if start.Before(workday.Date(v.now())) {
		return 0, leaveerrors.ErrPastDate
	}

	days, err := workday.Count(start, end)
	if err != nil {
		return 0, leaveerrors.ErrInvertedRange
	}
	if days == 0 {
		return 0, leaveerrors.ErrZeroWorkdays
	}

	overlapping, err := store.FindOverlapping(ctx, employeeID, start, end, overlapIgnoredStatuses)
	if err != nil {
		return 0, err
	}
	if len(overlapping) > 0 {
		return 0, leaveerrors.ErrOverlappingRequest
	}

	return days, nil
}
