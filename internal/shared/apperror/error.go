package apperror

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code       string // Error code (e.g., INVALID_INPUT)
	Message    string // User-friendly message
	HTTPStatus int    // HTTP status code
	Kind       Kind   // Failure family, see KindOf
	Err        error  // Wrapped original error (optional)
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements errors.Unwrap interface for errors.Is/As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError without wrapping
func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Kind:       kindForCode(code),
	}
}

// NewKind is New with an explicit failure family.
func NewKind(kind Kind, code, message string, httpStatus int) *AppError {
	e := New(code, message, httpStatus)
	e.Kind = kind
	return e
}

// Wrap creates an AppError that wraps an existing error
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Kind:       kindForCode(code),
		Err:        err,
	}
}

// KindOf reports the failure family of err. Errors that are not AppErrors are internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != "" {
		return appErr.Kind
	}
	return KindInternal
}

func kindForCode(code string) Kind {
	switch code {
	case CodeInvalidInput, CodeValidation, CodeConflict:
		return KindValidation
	case CodeInsufficientBalance:
		return KindBalance
	case CodeInvalidState:
		return KindState
	case CodeNotFound:
		return KindNotFound
	case CodeUnauthorized, CodeForbidden:
		return KindAuth
	default:
		return KindInternal
	}
}
