package common

import (
	"errors"
	"net/http"

	"axiapac.com/attendance/core"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
	Field   string `json:"field,omitempty"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Message: message,
	}
}

// StatusFor maps an error from the core to an HTTP status.
func StatusFor(err error) int {
	var dup *core.DuplicateFieldError
	var iss *core.IssuanceFailedError
	switch {
	case errors.As(err, &dup):
		return http.StatusConflict
	case errors.As(err, &iss):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrActorNotFound), errors.Is(err, core.ErrAuthInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, core.ErrTargetNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrCollaboratorUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrInvalidRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// NewErrorResponseFor renders err without leaking detail for auth and
// permission failures or for unexpected errors.
func NewErrorResponseFor(err error) (int, *ErrorResponse) {
	status := StatusFor(err)
	resp := &ErrorResponse{Reason: core.ReasonOf(err)}

	var dup *core.DuplicateFieldError
	switch {
	case errors.As(err, &dup):
		resp.Message = "A user with this " + string(dup.Field) + " already exists"
		resp.Field = string(dup.Field)
	case errors.Is(err, core.ErrAuthInvalid):
		resp.Message = "Invalid email or password"
	case errors.Is(err, core.ErrActorNotFound):
		resp.Message = "Unauthorized"
	case errors.Is(err, core.ErrPermissionDenied):
		resp.Message = "You do not have permission to perform this action"
	case errors.Is(err, core.ErrCollaboratorUnavailable):
		resp.Message = "Service temporarily unavailable"
	case status == http.StatusInternalServerError:
		resp.Message = "Internal server error"
	default:
		resp.Message = err.Error()
	}
	return status, resp
}
