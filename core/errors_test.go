package core

import (
	"errors"
	"fmt"
	"testing"

	"axiapac.com/attendance/model"
	"github.com/stretchr/testify/assert"
)

func TestReasonOf(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"actor", ErrActorNotFound, ReasonActorNotFound},
		{"denied", fmt.Errorf("wrapped: %w", ErrPermissionDenied), ReasonPermissionDenied},
		{"duplicate", DuplicateField(model.FieldUsername), ReasonDuplicateField},
		{"target", ErrTargetNotFound, ReasonTargetNotFound},
		{"issuance", IssuanceFailed("weak password"), ReasonIssuanceFailed},
		{"auth", ErrAuthInvalid, ReasonAuthInvalid},
		{"unavailable", Unavailable(cause), ReasonCollaboratorUnavailable},
		{"invalid", invalid("bad"), ReasonInvalidRequest},
		{"other", cause, ReasonInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReasonOf(tt.err))
		})
	}
}

func TestUnavailableKeepsCause(t *testing.T) {
	cause := errors.New("timeout")
	err := Unavailable(cause)

	assert.ErrorIs(t, err, ErrCollaboratorUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Same(t, err, Unavailable(err))
	assert.Nil(t, Unavailable(nil))
}
