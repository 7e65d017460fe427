package leaveauditerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrDuplicateEvent = apperror.New(
		apperror.CodeConflict,
		"leave audit event already recorded",
		http.StatusConflict,
	)
	ErrInvalidEvent = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave lifecycle event",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
)
