package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsWrapSentinels(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    error
		message string
	}{
		{"not found", NewResourceNotFoundError("Lecturer with ID 999 not found"), ErrResourceNotFound, "Lecturer with ID 999 not found"},
		{"conflict", NewConflictError("email taken"), ErrConflict, "email taken"},
		{"forbidden", NewForbiddenError("Forbidden resource", CodePolicyDenied), ErrPermissionDenied, "Forbidden resource"},
		{"bad request", NewBadRequestError("bad id"), ErrBadRequest, "bad id"},
		{"validation", NewValidationError("gpa out of range"), ErrValidationFailed, "gpa out of range"},
		{"authentication", NewAuthenticationError(ErrTokenRevoked, "refresh token revoked"), ErrTokenRevoked, "refresh token revoked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestNewStorageError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStorageError("failed to update lecturer with id 7", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to update lecturer with id 7", err.Error())

	bare := NewStorageError("failed", nil)
	assert.ErrorIs(t, bare, ErrStorage)
}

func TestCodeOfAndMessageOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewForbiddenError("Forbidden resource", CodeOwnershipDenied))

	assert.Equal(t, CodeOwnershipDenied, CodeOf(err))
	assert.Equal(t, "Forbidden resource", MessageOf(err))
	assert.Empty(t, CodeOf(errors.New("plain")))
	assert.Empty(t, MessageOf(errors.New("plain")))
}

func TestIs(t *testing.T) {
	err := NewAuthenticationError(ErrTokenExpired, "expired")

	assert.True(t, Is(err, ErrTokenInvalid, ErrTokenExpired))
	assert.False(t, Is(err, ErrTokenInvalid, ErrTokenRevoked))
}

func TestCustomErrorFallbackMessage(t *testing.T) {
	assert.Equal(t, "conflict", (&CustomError{Err: ErrConflict}).Error())
	assert.Equal(t, "unknown error", (&CustomError{}).Error())

	custom := (&CustomError{Err: ErrBadRequest}).WithCode("X").WithDetails(map[string]interface{}{"field": "id"})
	assert.Equal(t, "X", custom.Code)
	assert.Equal(t, "id", custom.Details["field"])
}
