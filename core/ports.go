package core

import (
	"context"
	"io"

	"axiapac.com/attendance/model"
)

// IdentityGateway issues and verifies bearer credentials.
type IdentityGateway interface {
	VerifyCredential(ctx context.Context, token string) (string, error)
	IssueCredential(ctx context.Context, email, password, displayName string) (string, error)
	SignIn(ctx context.Context, email, password string) (uid string, token string, err error)
}

// DirectoryStore is the system of record for accounts and attendance.
// Absent rows are reported as ErrNoRecord. PutAccount must reject a
// collision on any unique field with *DuplicateFieldError, atomically
// with the write.
type DirectoryStore interface {
	GetAccount(ctx context.Context, id string) (*model.UserAccount, error)
	ListAccounts(ctx context.Context) ([]model.UserAccount, error)
	AccountExists(ctx context.Context, field model.Field, value string) (bool, error)
	PutAccount(ctx context.Context, account *model.UserAccount) error
	SetAccountActive(ctx context.Context, id string, isActive bool) error

	ListAttendance(ctx context.Context) ([]model.AttendanceRecord, error)
}

// ImageStore keeps profile images and returns a URL to reach them.
type ImageStore interface {
	PutImage(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// Notifier receives account events after a mutation has been persisted.
type Notifier interface {
	AccountCreated(ctx context.Context, account *model.UserAccount) error
	AccountStatusChanged(ctx context.Context, accountID string, isActive bool, actorID string) error
}
