package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an application error.
type ErrorCode int

const (
	ErrNotFound ErrorCode = iota + 1000
	ErrValidation
	ErrUnauthorized
	ErrForbidden
	ErrGateway
	ErrMalformedRecord
	ErrInvalidTransition
	ErrInternal
)

// AppError is the error type surfaced across service boundaries.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error code to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrValidation, ErrInvalidTransition:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{Code: ErrNotFound, Message: fmt.Sprintf("%s not found", resource), Err: err}
}

// Validation marks a client input failure that never reached a gateway.
func Validation(message string) *AppError {
	return &AppError{Code: ErrValidation, Message: message}
}

// Gateway wraps a backend/network failure; the message is passed through to
// the caller's error state verbatim.
func Gateway(message string, err error) *AppError {
	return &AppError{Code: ErrGateway, Message: message, Err: err}
}

// MalformedRecord marks a document that failed shape validation at the
// persistence boundary.
func MalformedRecord(collection, id string, err error) *AppError {
	return &AppError{
		Code:    ErrMalformedRecord,
		Message: fmt.Sprintf("malformed %s record %s", collection, id),
		Err:     err,
	}
}

// InvalidTransition rejects an illegal appointment lifecycle step.
func InvalidTransition(from, to string) *AppError {
	return &AppError{
		Code:    ErrInvalidTransition,
		Message: fmt.Sprintf("invalid status transition from %s to %s", from, to),
	}
}

func Unauthorized(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{Code: ErrUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	if message == "" {
		message = "permission denied"
	}
	return &AppError{Code: ErrForbidden, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Err: err}
}

// As unwraps err into target, mirroring errors.As.
func As(err error, target **AppError) bool {
	return errors.As(err, target)
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
