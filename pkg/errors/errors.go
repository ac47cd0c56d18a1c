package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrValidation ErrorCode = iota + 1000
	ErrConflict
	ErrPermissionDenied
	ErrNotFound
	ErrUnauthorized
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// HCNumbers lists the clinical history numbers that caused a
	// conflict, when the code is ErrConflict.
	HCNumbers []string `json:"hc_numbers,omitempty"`
	Err       error    `json:"-"`
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

// Error constructors

func Validation(message string) *AppError {
	return &AppError{Code: ErrValidation, Message: message}
}

func Conflict(message string, hcNumbers ...string) *AppError {
	return &AppError{Code: ErrConflict, Message: message, HCNumbers: hcNumbers}
}

func PermissionDenied(message string) *AppError {
	return &AppError{Code: ErrPermissionDenied, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Code: ErrNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Unauthorized(message string) *AppError {
	return &AppError{Code: ErrUnauthorized, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal error", Err: err}
}

// CodeOf extracts the error code from err, or ErrInternal when err is
// not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// JoinHC formats a list of clinical history numbers for messages.
func JoinHC(hcNumbers []string) string {
	return strings.Join(hcNumbers, ", ")
}
