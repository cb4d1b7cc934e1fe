package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/abhisek/mathpace/internal/puzzle"
	"github.com/abhisek/mathpace/internal/session"
	"github.com/abhisek/mathpace/internal/tracker"
)

// Error codes
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeSessionComplete = "SESSION_COMPLETE"
	ErrCodeNoPendingPuzzle = "NO_PENDING_PUZZLE"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// AppError is an error with an HTTP status and a stable code.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

func NewValidationError(field, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// fromSessionError maps session and answer errors to API errors.
func fromSessionError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var invalid *tracker.InvalidAttemptError
	switch {
	case errors.Is(err, session.ErrSessionComplete):
		return &AppError{Code: ErrCodeSessionComplete, Message: "session is complete", Status: http.StatusConflict}
	case errors.Is(err, session.ErrNoPendingPuzzle):
		return &AppError{Code: ErrCodeNoPendingPuzzle, Message: "no puzzle is waiting for an answer", Status: http.StatusConflict}
	case errors.Is(err, puzzle.ErrNotANumber):
		return NewValidationError("answer", "not a number")
	case errors.As(err, &invalid):
		return NewValidationError(invalid.Field, invalid.Reason)
	}
	return NewInternalError(err)
}
