package employeeerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrManagerNotFound = apperror.New(
		apperror.CodeNotFound,
		"Manager not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"Role must be one of EMPLOYEE, MANAGER, HR_ADMIN",
		http.StatusBadRequest,
	)
	ErrCannotCreateHRAdmin = apperror.New(
		apperror.CodeInvalidInput,
		"Cannot create an HR Admin employee",
		http.StatusUnprocessableEntity,
	)
	ErrManagerRequired = apperror.New(
		apperror.CodeInvalidInput,
		"manager_id is required for role EMPLOYEE",
		http.StatusBadRequest,
	)
	ErrNotManager = apperror.New(
		apperror.CodeInvalidInput,
		"Selected manager does not have a managerial role",
		http.StatusUnprocessableEntity,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee already exists",
		http.StatusConflict,
	)
)

// Balance errors raised by the leave ledger.
var (
	ErrInsufficientBalance = apperror.NewKind(
		apperror.KindBalance,
		apperror.CodeInsufficientBalance,
		"Insufficient available leaves",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidTotalAdjustment = apperror.NewKind(
		apperror.KindBalance,
		apperror.CodeInvalidInput,
		"Insufficient available leaves: cannot reduce total leave credits",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidLeaveDays = apperror.New(
		apperror.CodeInvalidInput,
		"Leave days must not be negative",
		http.StatusBadRequest,
	)
)
