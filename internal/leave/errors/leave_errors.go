package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

// Request validation.
var (
	ErrNullDate = apperror.New(
		apperror.CodeInvalidInput,
		"start_date and end_date are required",
		http.StatusBadRequest,
	)
	ErrInvertedRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrPastDate = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must not be in the past",
		http.StatusBadRequest,
	)
	ErrZeroWorkdays = apperror.New(
		apperror.CodeInvalidInput,
		"leave range contains no working days",
		http.StatusBadRequest,
	)
	ErrOverlappingRequest = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of PENDING, APPROVED, REJECTED, CANCELLED",
		http.StatusBadRequest,
	)
)

// Lifecycle.
var (
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"leave application is no longer pending",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid leave status transition",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
)

// Authority.
var (
	ErrNotApprover = apperror.New(
		apperror.CodeForbidden,
		"only the assigned manager or an HR admin can decide this leave",
		http.StatusForbidden,
	)
	ErrNotLeaveOwner = apperror.New(
		apperror.CodeForbidden,
		"only the owner can cancel this leave",
		http.StatusForbidden,
	)
	ErrLeaveAccessDenied = apperror.New(
		apperror.CodeForbidden,
		"you do not have access to these leave applications",
		http.StatusForbidden,
	)
	ErrNotAManager = apperror.New(
		apperror.CodeInvalidInput,
		"employee is not a manager",
		http.StatusBadRequest,
	)
)
