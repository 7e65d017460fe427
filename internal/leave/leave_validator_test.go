package leave_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type overlapFinderFunc func(ctx context.Context, employeeID string, start, end time.Time, excludeStatuses []leave.Status) ([]leave.LeaveApplication, error)

func (f overlapFinderFunc) FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeStatuses []leave.Status) ([]leave.LeaveApplication, error) {
	return f(ctx, employeeID, start, end, excludeStatuses)
}

func noOverlap() overlapFinderFunc {
	return func(context.Context, string, time.Time, time.Time, []leave.Status) ([]leave.LeaveApplication, error) {
		return nil, nil
	}
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestValidator_Validate(t *testing.T) {
	ctx := context.Background()
	// Sunday morning; 2026-03-02 is a Monday.
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	v := leave.NewValidator(func() time.Time { return now })

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		wantDays int
		wantErr  error
	}{
		{name: "missing start", end: date("2026-03-02"), wantErr: leaveerrors.ErrNullDate},
		{name: "missing end", start: date("2026-03-02"), wantErr: leaveerrors.ErrNullDate},
		{name: "inverted range", start: date("2026-03-06"), end: date("2026-03-02"), wantErr: leaveerrors.ErrInvertedRange},
		{name: "inverted wins over past", start: date("2026-02-20"), end: date("2026-02-10"), wantErr: leaveerrors.ErrInvertedRange},
		{name: "start in the past", start: date("2026-02-27"), end: date("2026-03-02"), wantErr: leaveerrors.ErrPastDate},
		{name: "weekend only", start: date("2026-03-07"), end: date("2026-03-08"), wantErr: leaveerrors.ErrZeroWorkdays},
		{name: "today is allowed", start: date("2026-03-01"), end: date("2026-03-02"), wantDays: 1},
		{name: "monday to friday", start: date("2026-03-02"), end: date("2026-03-06"), wantDays: 5},
		{name: "spans a weekend", start: date("2026-03-05"), end: date("2026-03-10"), wantDays: 4},
		{name: "single day", start: date("2026-03-04"), end: date("2026-03-04"), wantDays: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := v.Validate(ctx, noOverlap(), "emp-1", tt.start, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, days)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDays, days)
		})
	}
}

func TestValidator_Overlap(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	v := leave.NewValidator(func() time.Time { return now })

	t.Run("existing live application overlaps", func(t *testing.T) {
		store := overlapFinderFunc(func(_ context.Context, employeeID string, start, end time.Time, excluded []leave.Status) ([]leave.LeaveApplication, error) {
			assert.Equal(t, "emp-1", employeeID)
			assert.Equal(t, date("2026-03-02"), start)
			assert.Equal(t, date("2026-03-06"), end)
			assert.ElementsMatch(t, []leave.Status{leave.StatusRejected, leave.StatusCancelled}, excluded)
			return []leave.LeaveApplication{{Status: leave.StatusApproved}}, nil
		})

		start := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
		_, err := v.Validate(ctx, store, "emp-1", start, date("2026-03-06"))
		assert.ErrorIs(t, err, leaveerrors.ErrOverlappingRequest)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		boom := errors.New("db down")
		store := overlapFinderFunc(func(context.Context, string, time.Time, time.Time, []leave.Status) ([]leave.LeaveApplication, error) {
			return nil, boom
		})

		_, err := v.Validate(ctx, store, "emp-1", date("2026-03-02"), date("2026-03-06"))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("overlap not consulted for invalid ranges", func(t *testing.T) {
		store := overlapFinderFunc(func(context.Context, string, time.Time, time.Time, []leave.Status) ([]leave.LeaveApplication, error) {
			t.Fatal("overlap queried for an invalid range")
			return nil, nil
		})

		_, err := v.Validate(ctx, store, "emp-1", date("2026-03-07"), date("2026-03-08"))
		assert.ErrorIs(t, err, leaveerrors.ErrZeroWorkdays)
	})
}
