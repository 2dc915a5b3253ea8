package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"axiapac.com/attendance/core"
	"axiapac.com/attendance/model"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"actor not found", core.ErrActorNotFound, http.StatusUnauthorized},
		{"auth invalid", core.ErrAuthInvalid, http.StatusUnauthorized},
		{"permission denied", fmt.Errorf("create: %w", core.ErrPermissionDenied), http.StatusForbidden},
		{"target not found", core.ErrTargetNotFound, http.StatusNotFound},
		{"duplicate", core.DuplicateField(model.FieldUsername), http.StatusConflict},
		{"issuance", core.IssuanceFailed("weak password"), http.StatusUnprocessableEntity},
		{"unavailable", core.Unavailable(errors.New("dial tcp")), http.StatusServiceUnavailable},
		{"invalid", fmt.Errorf("%w: bad type", core.ErrInvalidRequest), http.StatusBadRequest},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusFor(tt.err))
		})
	}
}

func TestNewErrorResponseFor(t *testing.T) {
	status, resp := NewErrorResponseFor(core.DuplicateField(model.FieldEmail))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "email", resp.Field)
	assert.Equal(t, core.ReasonDuplicateField, resp.Reason)

	_, resp = NewErrorResponseFor(core.Unavailable(errors.New("password=hunter2 dial failed")))
	assert.NotContains(t, resp.Message, "hunter2")

	_, resp = NewErrorResponseFor(errors.New("sql: connection string secret"))
	assert.Equal(t, "Internal server error", resp.Message)
	assert.Equal(t, core.ReasonInternal, resp.Reason)

	_, resp = NewErrorResponseFor(core.IssuanceFailed("password must be at least 6 characters"))
	assert.Contains(t, resp.Message, "at least 6")
}

func TestSearchResponse(t *testing.T) {
	b, err := json.Marshal(NewSearchResponse[model.UserAccount](nil))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"data": [], "pagination": {"total": 0}}`, string(b))

	b, err = json.Marshal(NewSearchResponse([]string{"a", "b"}))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"data": ["a", "b"], "pagination": {"total": 2}}`, string(b))
}

func TestMessageResponse(t *testing.T) {
	b, err := json.Marshal(NewMessageResponse("done", map[string]bool{"isActive": true}))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"message": "done", "data": {"isActive": true}}`, string(b))

	b, err = json.Marshal(NewSuccessResponse(1))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"data": 1}`, string(b))
}
