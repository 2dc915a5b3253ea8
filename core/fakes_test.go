package core

import (
	"context"
	"fmt"
	"io"
	"sync"

	"axiapac.com/attendance/model"
)

type fakeStore struct {
	mu         sync.Mutex
	accounts   map[string]model.UserAccount
	order      []string
	attendance []model.AttendanceRecord

	GetErr    error
	ListErr   error
	ExistsErr error
	PutErr    error
	// skipUniqueCheck makes AccountExists report false, simulating a
	// concurrent writer that committed after the check.
	skipUniqueCheck bool
}

func newFakeStore(accounts ...model.UserAccount) *fakeStore {
	s := &fakeStore{accounts: map[string]model.UserAccount{}}
	for _, a := range accounts {
		s.accounts[a.ID] = a
		s.order = append(s.order, a.ID)
	}
	return s
}

func (s *fakeStore) GetAccount(_ context.Context, id string) (*model.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrNoRecord
	}
	return &a, nil
}

func (s *fakeStore) ListAccounts(_ context.Context) ([]model.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]model.UserAccount, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.accounts[id])
	}
	return out, nil
}

func (s *fakeStore) AccountExists(_ context.Context, field model.Field, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ExistsErr != nil {
		return false, s.ExistsErr
	}
	if s.skipUniqueCheck {
		return false, nil
	}
	for _, a := range s.accounts {
		if a.Value(field) == value {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) PutAccount(_ context.Context, account *model.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil {
		return s.PutErr
	}
	for _, f := range model.UniqueFields {
		for _, a := range s.accounts {
			if a.Value(f) == account.Value(f) {
				return DuplicateField(f)
			}
		}
	}
	s.accounts[account.ID] = *account
	s.order = append(s.order, account.ID)
	return nil
}

func (s *fakeStore) SetAccountActive(_ context.Context, id string, isActive bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return ErrNoRecord
	}
	a.IsActive = isActive
	s.accounts[id] = a
	return nil
}

func (s *fakeStore) ListAttendance(_ context.Context) ([]model.AttendanceRecord, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return s.attendance, nil
}

type fakeIdentity struct {
	issued    []string
	next      int
	IssueErr  error
	SignInErr error
	signInUID string
}

func (f *fakeIdentity) VerifyCredential(_ context.Context, token string) (string, error) {
	return token, nil
}

func (f *fakeIdentity) IssueCredential(_ context.Context, email, _, displayName string) (string, error) {
	if f.IssueErr != nil {
		return "", f.IssueErr
	}
	f.next++
	uid := fmt.Sprintf("uid-%d", f.next)
	f.issued = append(f.issued, email+"|"+displayName)
	return uid, nil
}

func (f *fakeIdentity) SignIn(_ context.Context, _, _ string) (string, string, error) {
	if f.SignInErr != nil {
		return "", "", f.SignInErr
	}
	return f.signInUID, "token-" + f.signInUID, nil
}

type fakeImages struct {
	keys []string
	Err  error
}

func (f *fakeImages) PutImage(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type recordingNotifier struct {
	created []string
	changed []string
	Err     error
}

func (n *recordingNotifier) AccountCreated(_ context.Context, account *model.UserAccount) error {
	n.created = append(n.created, account.ID)
	return n.Err
}

func (n *recordingNotifier) AccountStatusChanged(_ context.Context, id string, isActive bool, _ string) error {
	n.changed = append(n.changed, fmt.Sprintf("%s=%t", id, isActive))
	return n.Err
}
