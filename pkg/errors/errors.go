package errors

import (
	"fmt"
	"net/http"
)

// Error codes carried in StandardError.Code
const (
	CodeInvalidRequest  = "InvalidRequest"
	CodeValidationError = "ValidationError"
	CodeUnauthorized    = "Unauthorized"
	CodeForbidden       = "Forbidden"
	CodeItemNotFound    = "ItemNotFound"
	CodeConflict        = "Conflict"
	CodeStorageError    = "StorageError"
	CodeImportError     = "ImportError"
	CodeInternalError   = "InternalError"
)

// StandardError represents a standardized error response
type StandardError struct {
	Code    string `json:"error"`   // Error code/type (e.g., "InvalidRequest", "ItemNotFound")
	Message string `json:"message"` // Human-readable error message
	Details string `json:"details"` // Additional details (field name, row number, etc.)

	cause error
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return e.Message
}

// Unwrap returns the underlying failure. It is logged, never sent to clients.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// HTTPStatus returns the appropriate HTTP status code for the error
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidRequest, CodeValidationError:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeItemNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeStorageError, CodeImportError, CodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewStandardError creates a new StandardError
func NewStandardError(errorCode, message, details string) *StandardError {
	return &StandardError{
		Code:    errorCode,
		Message: message,
		Details: details,
	}
}

func NewInvalidRequest(message, details string) *StandardError {
	return NewStandardError(CodeInvalidRequest, message, details)
}

func NewValidationError(message, field string) *StandardError {
	return NewStandardError(CodeValidationError, message, fmt.Sprintf("Field: %s", field))
}

func NewUnauthorized(message, details string) *StandardError {
	return NewStandardError(CodeUnauthorized, message, details)
}

func NewForbidden(message, details string) *StandardError {
	return NewStandardError(CodeForbidden, message, details)
}

func NewConflict(message, details string) *StandardError {
	return NewStandardError(CodeConflict, message, details)
}

func NewItemNotFound(itemID int64) *StandardError {
	return NewStandardError(CodeItemNotFound, "item not found", fmt.Sprintf("Item ID: %d", itemID))
}

// NewStorageError hides the underlying I/O failure behind a generic message.
// The cause is only reachable through Unwrap.
func NewStorageError(operation string, err error) *StandardError {
	stdErr := NewStandardError(CodeStorageError, fmt.Sprintf("error %s", operation), "storage unavailable")
	stdErr.cause = err
	return stdErr
}

func NewImportError(err error) *StandardError {
	return NewStandardError(CodeImportError, "error importing items", err.Error())
}

func NewInternalError(message string, err error) *StandardError {
	stdErr := NewStandardError(CodeInternalError, message, "")
	stdErr.cause = err
	return stdErr
}
