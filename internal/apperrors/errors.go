package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the resource is not in a state that allows the action.
var ErrConflict = errors.New("state conflict")

// ErrInternal is returned when a failure should not be exposed in detail.
var ErrInternal = errors.New("internal error")

// Payroll cycle errors. Each wraps the generic class it belongs to so that
// handlers can map on the class while callers can still match precisely.
var (
	ErrInvalidPeriod      = fmt.Errorf("%w: period must be formatted YYYY-MM", ErrValidation)
	ErrCycleAlreadyExists = fmt.Errorf("%w: payroll cycle already exists for period", ErrDuplicate)
	ErrCycleNotEditable   = fmt.Errorf("%w: payroll cycle is not in DRAFT", ErrConflict)
	ErrCycleNotConfirmed  = fmt.Errorf("%w: payroll cycle is not FINANCE_CONFIRMED", ErrConflict)
	ErrCycleNotDraft      = fmt.Errorf("%w: only DRAFT cycles can be confirmed", ErrConflict)
)

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
