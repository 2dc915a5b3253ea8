package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"axiapac.com/attendance/core"
	"axiapac.com/attendance/model"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresStore is the sqlx/lib/pq directory backend.
type PostgresStore struct {
	db *sqlx.DB
}

func ConnectPostgres(ctx context.Context, dsn string, maxConns int) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureTables creates the tables if they do not exist.
func (s *PostgresStore) EnsureTables(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS user_accounts (
  id TEXT PRIMARY KEY,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL,
  username TEXT NOT NULL,
  employee_id TEXT NOT NULL,
  national_id TEXT NOT NULL,
  role TEXT NOT NULL,
  admin_role TEXT NOT NULL DEFAULT '',
  profile_image TEXT NOT NULL DEFAULT '',
  is_active BOOLEAN NOT NULL DEFAULT true,
  created_by TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  CONSTRAINT idx_user_accounts_email UNIQUE (email),
  CONSTRAINT idx_user_accounts_username UNIQUE (username),
  CONSTRAINT idx_user_accounts_employee_id UNIQUE (employee_id),
  CONSTRAINT idx_user_accounts_national_id UNIQUE (national_id)
);
CREATE INDEX IF NOT EXISTS idx_user_accounts_role ON user_accounts(role);
CREATE TABLE IF NOT EXISTS attendance (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  date TEXT NOT NULL,
  start_time TIMESTAMPTZ,
  end_time TIMESTAMPTZ,
  start_location TEXT,
  end_location TEXT,
  updated_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(date);
CREATE TABLE IF NOT EXISTS credentials (
  uid TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  display_name TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  password_algo TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  CONSTRAINT idx_credentials_email UNIQUE (email)
);
`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

const accountColumns = `id, first_name, last_name, email, username, employee_id, national_id,
	role, admin_role, profile_image, is_active, created_by, created_at`

func noRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNoRecord
	}
	return err
}

func (s *PostgresStore) GetAccount(ctx context.Context, id string) (*model.UserAccount, error) {
	var account model.UserAccount
	q := `SELECT ` + accountColumns + ` FROM user_accounts WHERE id = $1`
	if err := s.db.GetContext(ctx, &account, q, id); err != nil {
		return nil, noRows(err)
	}
	return &account, nil
}

func (s *PostgresStore) ListAccounts(ctx context.Context) ([]model.UserAccount, error) {
	var accounts []model.UserAccount
	q := `SELECT ` + accountColumns + ` FROM user_accounts ORDER BY created_at`
	err := s.db.SelectContext(ctx, &accounts, q)
	return accounts, err
}

func (s *PostgresStore) AccountExists(ctx context.Context, field model.Field, value string) (bool, error) {
	column := field.Column()
	if column == "" {
		return false, fmt.Errorf("unknown field %q", field)
	}
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM user_accounts WHERE ` + column + ` = $1)`
	err := s.db.GetContext(ctx, &exists, q, value)
	return exists, err
}

func (s *PostgresStore) PutAccount(ctx context.Context, account *model.UserAccount) error {
	const q = `INSERT INTO user_accounts (` + accountColumns + `)
		VALUES (:id, :first_name, :last_name, :email, :username, :employee_id, :national_id,
			:role, :admin_role, :profile_image, :is_active, :created_by, :created_at)`
	_, err := s.db.NamedExecContext(ctx, q, account)
	return translate(err)
}

func (s *PostgresStore) SetAccountActive(ctx context.Context, id string, isActive bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE user_accounts SET is_active = $1 WHERE id = $2`, isActive, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrNoRecord
	}
	return nil
}

func (s *PostgresStore) ListAttendance(ctx context.Context) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	const q = `SELECT id, user_id, date, start_time, end_time, start_location, end_location, updated_at FROM attendance`
	err := s.db.SelectContext(ctx, &records, q)
	return records, err
}

func (s *PostgresStore) GetAttendance(ctx context.Context, id string) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	const q = `SELECT id, user_id, date, start_time, end_time, start_location, end_location, updated_at FROM attendance WHERE id = $1`
	if err := s.db.GetContext(ctx, &record, q, id); err != nil {
		return nil, noRows(err)
	}
	return &record, nil
}

func (s *PostgresStore) PutAttendance(ctx context.Context, record *model.AttendanceRecord) error {
	const q = `INSERT INTO attendance (id, user_id, date, start_time, end_time, start_location, end_location, updated_at)
		VALUES (:id, :user_id, :date, :start_time, :end_time, :start_location, :end_location, :updated_at)
		ON CONFLICT (id) DO UPDATE SET user_id = EXCLUDED.user_id, date = EXCLUDED.date,
			start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
			start_location = EXCLUDED.start_location, end_location = EXCLUDED.end_location,
			updated_at = EXCLUDED.updated_at`
	_, err := s.db.NamedExecContext(ctx, q, record)
	return err
}

func (s *PostgresStore) PutCredential(ctx context.Context, credential *model.Credential) error {
	const q = `INSERT INTO credentials (uid, email, display_name, password_hash, password_algo, created_at)
		VALUES (:uid, :email, :display_name, :password_hash, :password_algo, :created_at)`
	_, err := s.db.NamedExecContext(ctx, q, credential)
	return translate(err)
}

func (s *PostgresStore) GetCredentialByEmail(ctx context.Context, email string) (*model.Credential, error) {
	var credential model.Credential
	const q = `SELECT uid, email, display_name, password_hash, password_algo, created_at FROM credentials WHERE email = $1`
	if err := s.db.GetContext(ctx, &credential, q, email); err != nil {
		return nil, noRows(err)
	}
	return &credential, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
