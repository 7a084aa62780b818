// Package errors provides the structured application error used across
// the dashboard. Every user-facing failure carries a code from the
// taxonomy below so handlers can decide how to present it.
package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeLoadFailure   = "LOAD_FAILURE"
	CodeRenderFailure = "RENDER_FAILURE"
	CodeNoOp          = "NO_OP"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeDatabaseError = "DATABASE_ERROR"
	CodeInternalError = "INTERNAL_ERROR"
)

// Common error constructors

// LoadFailure marks an upload that could not be parsed into a table.
func LoadFailure(message string, cause error) *AppError {
	return &AppError{Code: CodeLoadFailure, Message: message, Cause: cause}
}

// RenderFailure marks a chart or correlation that could not be built
// from the current table.
func RenderFailure(message string, cause error) *AppError {
	return &AppError{Code: CodeRenderFailure, Message: message, Cause: cause}
}

// NoOp marks an operation that had nothing valid to do. It is surfaced
// as an informational message, not an error state.
func NoOp(message string) *AppError {
	return New(CodeNoOp, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: message, Cause: cause}
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

// IsNoOp reports whether the error is an informational no-op.
func IsNoOp(err error) bool {
	return GetCode(err) == CodeNoOp
}
