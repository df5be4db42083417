package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

var (
	ErrUserNotFound       = NewError(ErrCodeNotFound, "user not found")
	ErrTaskNotFound       = NewError(ErrCodeNotFound, "Task not found")
	ErrSessionNotFound    = NewError(ErrCodeNotFound, "session not found")
	ErrUnauthorized       = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload     = NewError(ErrCodeInvalid, "invalid payload")
	ErrTitleRequired      = NewError(ErrCodeInvalid, "Title is required")
	ErrTextRequired       = NewError(ErrCodeInvalid, "Text is required")
	ErrFieldsRequired     = NewError(ErrCodeInvalid, "All fields are required")
	ErrEmailTaken         = NewError(ErrCodeConflict, "Email already registered")
	ErrInvalidCredentials = NewError(ErrCodeInvalid, "Invalid email or password")
	ErrUnknownProfession  = NewError(ErrCodeInvalid, "unknown profession")
	ErrNoProfession       = NewError(ErrCodeInvalid, "No profession selected")
	ErrPasswordTooLong    = NewError(ErrCodeInvalid, "Password is too long")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// Message returns the client-facing message of a domain error, or fallback
// when err carries no domain classification.
func Message(err error, fallback string) string {
	var dErr *Error
	if errors.As(err, &dErr) && dErr.Code != ErrCodeInternal {
		return dErr.Message
	}
	return fallback
}
