package core

import (
	"errors"
	"fmt"

	"axiapac.com/attendance/model"
)

var (
	ErrActorNotFound           = errors.New("actor not found")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrTargetNotFound          = errors.New("target account not found")
	ErrAuthInvalid             = errors.New("invalid credentials")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	ErrInvalidRequest          = errors.New("invalid request")

	// ErrNoRecord is returned by stores for absent rows.
	ErrNoRecord = errors.New("record not found")
)

// Stable reason strings surfaced to consumers.
const (
	ReasonActorNotFound           = "actor_not_found"
	ReasonPermissionDenied        = "permission_denied"
	ReasonDuplicateField          = "duplicate_field"
	ReasonTargetNotFound          = "target_not_found"
	ReasonIssuanceFailed          = "issuance_failed"
	ReasonAuthInvalid             = "auth_invalid"
	ReasonCollaboratorUnavailable = "collaborator_unavailable"
	ReasonInvalidRequest          = "invalid_request"
	ReasonInternal                = "internal"
)

type DuplicateFieldError struct {
	Field model.Field
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("duplicate %s", e.Field)
}

func DuplicateField(f model.Field) error {
	return &DuplicateFieldError{Field: f}
}

type IssuanceFailedError struct {
	Reason string
}

func (e *IssuanceFailedError) Error() string {
	return "credential issuance failed: " + e.Reason
}

func IssuanceFailed(reason string) error {
	return &IssuanceFailedError{Reason: reason}
}

type unavailableError struct {
	cause error
}

func (e *unavailableError) Error() string {
	return fmt.Sprintf("%s: %v", ErrCollaboratorUnavailable, e.cause)
}

func (e *unavailableError) Unwrap() error { return e.cause }

func (e *unavailableError) Is(target error) bool {
	return target == ErrCollaboratorUnavailable
}

// Unavailable marks a store or gateway failure. The cause stays reachable
// through errors.Is / errors.As.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCollaboratorUnavailable) {
		return err
	}
	return &unavailableError{cause: err}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// ReasonOf maps an error to its stable reason string.
func ReasonOf(err error) string {
	var dup *DuplicateFieldError
	var iss *IssuanceFailedError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &dup):
		return ReasonDuplicateField
	case errors.As(err, &iss):
		return ReasonIssuanceFailed
	case errors.Is(err, ErrActorNotFound):
		return ReasonActorNotFound
	case errors.Is(err, ErrPermissionDenied):
		return ReasonPermissionDenied
	case errors.Is(err, ErrTargetNotFound):
		return ReasonTargetNotFound
	case errors.Is(err, ErrAuthInvalid):
		return ReasonAuthInvalid
	case errors.Is(err, ErrCollaboratorUnavailable):
		return ReasonCollaboratorUnavailable
	case errors.Is(err, ErrInvalidRequest):
		return ReasonInvalidRequest
	}
	return ReasonInternal
}
