package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name      string
		err       *StandardError
		code      ErrorCode
		retryable bool
	}{
		{"validation", NewValidationError("project_id", "create timesheet"), ErrCodeValidation, false},
		{"not found", NewNotFoundError("timesheet", "TS-202510-148"), ErrCodeNotFound, false},
		{"parse", NewParseError("invalid JSON"), ErrCodeParse, false},
		{"timeout", NewTimeoutError("interpret"), ErrCodeTimeout, true},
		{"unknown intent", NewUnknownIntentError("no verb keyword"), ErrCodeUnknownIntent, false},
		{"database", NewDatabaseError("insert", errors.New("connection reset")), ErrCodeDatabase, true},
		{"unsupported", NewUnsupportedOperationError("CREATE", "EXPENSE"), ErrCodeUnsupportedOp, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.NotEmpty(t, tt.err.Message)
			assert.False(t, tt.err.Timestamp.IsZero())
		})
	}
}

func TestAsStandard(t *testing.T) {
	stdErr := NewNotFoundError("invoice", "INV-202511-186")
	wrapped := fmt.Errorf("dispatch failed: %w", stdErr)

	got, ok := AsStandard(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, got.Code)

	_, ok = AsStandard(errors.New("plain"))
	assert.False(t, ok)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeTimeout, CodeOf(NewTimeoutError("db")))
	// unclassified errors degrade to DATABASE_ERROR, never leak raw
	assert.Equal(t, ErrCodeDatabase, CodeOf(errors.New("driver: socket closed")))
}

func TestUserMessageNeverLeaksDetails(t *testing.T) {
	err := NewDatabaseError("find", errors.New("mongo: topology closed"))
	msg := UserMessage(err.Code)
	assert.NotContains(t, msg, "mongo")
	assert.NotContains(t, msg, "topology")
	assert.NotEmpty(t, msg)
}
