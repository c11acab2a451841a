// Package errors provides the standardized error taxonomy for the query
// pipeline. Every failure a handler or parser can produce maps to one of
// the codes below, and only the user-safe message for that code ever
// reaches a formatted response.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidation     ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeParse          ErrorCode = "PARSE_ERROR"
	ErrCodeTimeout        ErrorCode = "TIMEOUT_ERROR"
	ErrCodeUnknownIntent  ErrorCode = "UNKNOWN_INTENT"
	ErrCodeDatabase       ErrorCode = "DATABASE_ERROR"
	ErrCodeUnsupportedOp  ErrorCode = "UNSUPPORTED_OPERATION"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError creates a non-retryable error naming the missing or
// malformed field.
func NewValidationError(field, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   fmt.Sprintf("missing or invalid field: %s", field),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates a non-retryable error for an absent entity.
func NewNotFoundError(entity, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s %s not found", entity, id),
		Details:   fmt.Sprintf("entity: %s, id: %s", entity, id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError creates a non-retryable error for undecodable fallback
// parser output.
func NewParseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeParse,
		Message:   "language service returned an unusable response",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTimeoutError creates a retryable error for an external call that
// exceeded its bound.
func NewTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("operation timed out: %s", operation),
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownIntentError creates a non-retryable error for a query no rule
// matched and no fallback could resolve.
func NewUnknownIntentError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownIntent,
		Message:   "could not understand query",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseError wraps a driver-level failure. The raw driver message
// stays in Details and is never surfaced to users.
func NewDatabaseError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabase,
		Message:   fmt.Sprintf("database operation failed: %s", operation),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedOperationError creates a non-retryable error for an
// intent/entity combination the feature set does not cover.
func NewUnsupportedOperationError(action, entityType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedOp,
		Message:   fmt.Sprintf("%s is not supported for %s", action, entityType),
		Details:   fmt.Sprintf("action: %s, entityType: %s", action, entityType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// AsStandard extracts a *StandardError from err's chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the error code of err, or ErrCodeDatabase for
// unclassified errors so raw failures are still rendered safely.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr.Code
	}
	return ErrCodeDatabase
}

// userMessages are the only error texts allowed into formatted responses.
var userMessages = map[ErrorCode]string{
	ErrCodeValidation:    "The request is missing required information.",
	ErrCodeNotFound:      "The record you referenced does not exist.",
	ErrCodeParse:         "The query could not be interpreted. Try rephrasing it.",
	ErrCodeTimeout:       "The operation took too long. Please try again.",
	ErrCodeUnknownIntent: "Sorry, I could not understand that query.",
	ErrCodeDatabase:      "A database error occurred. Please try again later.",
	ErrCodeUnsupportedOp: "That operation is not supported.",
}

// UserMessage returns the user-safe sentence for a code.
func UserMessage(code ErrorCode) string {
	if msg, ok := userMessages[code]; ok {
		return msg
	}
	return "An unexpected error occurred."
}

// IsRetryable reports whether the error kind is worth retrying.
func IsRetryable(err error) bool {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr.Retryable
	}
	return false
}
