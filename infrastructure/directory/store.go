package directory

import (
	"context"

	"axiapac.com/attendance/core"
	"axiapac.com/attendance/model"
	"axiapac.com/attendance/security"
)

// Store is what every backend in this package provides: the directory,
// the credential table behind the identity gateway and attendance reads
// and writes for the importers.
type Store interface {
	core.DirectoryStore
	security.CredentialStore
	GetAttendance(ctx context.Context, id string) (*model.AttendanceRecord, error)
	PutAttendance(ctx context.Context, record *model.AttendanceRecord) error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*GormStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
