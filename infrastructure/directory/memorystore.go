package directory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"axiapac.com/attendance/core"
	"axiapac.com/attendance/model"
)

// MemoryStore keeps everything in process. Used for local runs and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	accounts    map[string]model.UserAccount
	attendance  map[string]model.AttendanceRecord
	credentials map[string]model.Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:    map[string]model.UserAccount{},
		attendance:  map[string]model.AttendanceRecord{},
		credentials: map[string]model.Credential{},
	}
}

func (s *MemoryStore) GetAccount(_ context.Context, id string) (*model.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, core.ErrNoRecord
	}
	return &account, nil
}

func (s *MemoryStore) ListAccounts(_ context.Context) ([]model.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]model.UserAccount, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID < accounts[j].ID
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (s *MemoryStore) AccountExists(_ context.Context, field model.Field, value string) (bool, error) {
	if field.Column() == "" {
		return false, fmt.Errorf("unknown field %q", field)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taken(field, value), nil
}

func (s *MemoryStore) taken(field model.Field, value string) bool {
	for _, a := range s.accounts {
		if a.Value(field) == value {
			return true
		}
	}
	return false
}

// PutAccount checks every unique field and inserts under one lock.
func (s *MemoryStore) PutAccount(_ context.Context, account *model.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.ID]; ok {
		return fmt.Errorf("account %s already exists", account.ID)
	}
	for _, f := range model.UniqueFields {
		if s.taken(f, account.Value(f)) {
			return core.DuplicateField(f)
		}
	}
	s.accounts[account.ID] = *account
	return nil
}

func (s *MemoryStore) SetAccountActive(_ context.Context, id string, isActive bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return core.ErrNoRecord
	}
	account.IsActive = isActive
	s.accounts[id] = account
	return nil
}

func (s *MemoryStore) ListAttendance(_ context.Context) ([]model.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]model.AttendanceRecord, 0, len(s.attendance))
	for _, r := range s.attendance {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (s *MemoryStore) GetAttendance(_ context.Context, id string) (*model.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.attendance[id]
	if !ok {
		return nil, core.ErrNoRecord
	}
	return &record, nil
}

func (s *MemoryStore) PutAttendance(_ context.Context, record *model.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attendance[record.ID] = *record
	return nil
}

func (s *MemoryStore) PutCredential(_ context.Context, credential *model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.credentials[credential.Email]; ok {
		return core.DuplicateField(model.FieldEmail)
	}
	s.credentials[credential.Email] = *credential
	return nil
}

func (s *MemoryStore) GetCredentialByEmail(_ context.Context, email string) (*model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	credential, ok := s.credentials[email]
	if !ok {
		return nil, core.ErrNoRecord
	}
	return &credential, nil
}
