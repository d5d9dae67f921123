// Package errors provides error code definitions for the conflict engine.
package errors

import "fmt"

// ErrorCode represents a unique, stable error code.
type ErrorCode string

const (
	// General errors
	ErrInternal ErrorCode = "INTERNAL_ERROR"
	ErrInvalid  ErrorCode = "INVALID_INPUT"
	ErrNotFound ErrorCode = "NOT_FOUND"

	// Conflict lifecycle errors
	ErrConflictNotFound ErrorCode = "CONFLICT_NOT_FOUND"
	ErrAlreadyResolved  ErrorCode = "ALREADY_RESOLVED"
	ErrEmptyResolution  ErrorCode = "EMPTY_RESOLUTION"

	// Strategy errors
	ErrStrategyFailed           ErrorCode = "STRATEGY_FAILED"
	ErrUnknownStrategy          ErrorCode = "UNKNOWN_STRATEGY"
	ErrCustomLogicNotConfigured ErrorCode = "CUSTOM_LOGIC_NOT_CONFIGURED"
	ErrManualRequired           ErrorCode = "MANUAL_RESOLUTION_REQUIRED"

	// Configuration errors
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"
)

// AppError represents an application error with code and message.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an error code.
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is checks if an error is of a specific code.
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}
