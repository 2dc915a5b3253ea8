package security

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"axiapac.com/attendance/core"
	"axiapac.com/attendance/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type credentialStore struct {
	mu      sync.Mutex
	byEmail map[string]model.Credential
	Err     error
}

func (s *credentialStore) PutCredential(_ context.Context, c *model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.byEmail == nil {
		s.byEmail = map[string]model.Credential{}
	}
	if _, ok := s.byEmail[c.Email]; ok {
		return core.DuplicateField(model.FieldEmail)
	}
	s.byEmail[c.Email] = *c
	return nil
}

func (s *credentialStore) GetCredentialByEmail(_ context.Context, email string) (*model.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.byEmail[email]
	if !ok {
		return nil, core.ErrNoRecord
	}
	return &c, nil
}

var secret = []byte("0123456789abcdef0123456789abcdef")

func newTestGateway(store CredentialStore, now func() time.Time) *Gateway {
	return NewGateway(store, secret,
		WithHasher(BcryptHasher{Cost: bcrypt.MinCost}),
		WithGatewayClock(now),
		WithTokenTTL(time.Hour))
}

func TestIssueSignInVerify(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store := &credentialStore{}
	g := newTestGateway(store, func() time.Time { return now })

	uid, err := g.IssueCredential(ctx, " Ann@Example.com ", "secret123", "Ann Lee")
	require.NoError(t, err)
	assert.NotEmpty(t, uid)
	assert.NotEqual(t, "secret123", store.byEmail["ann@example.com"].PasswordHash)

	signedUID, token, err := g.SignIn(ctx, "ann@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, uid, signedUID)

	verified, err := g.VerifyCredential(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uid, verified)
}

func TestIssueCredentialFailures(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(&credentialStore{}, time.Now)

	_, err := g.IssueCredential(ctx, "ann@example.com", "123", "Ann")
	var iss *core.IssuanceFailedError
	require.ErrorAs(t, err, &iss)
	assert.Contains(t, iss.Reason, "at least 6")

	_, err = g.IssueCredential(ctx, "not-an-email", "secret123", "Ann")
	require.ErrorAs(t, err, &iss)

	_, err = g.IssueCredential(ctx, "ann@example.com", "secret123", "Ann")
	require.NoError(t, err)
	_, err = g.IssueCredential(ctx, "ANN@example.com", "secret123", "Ann")
	require.ErrorAs(t, err, &iss)
	assert.Equal(t, "email already registered", iss.Reason)

	down := newTestGateway(&credentialStore{Err: errors.New("connection refused")}, time.Now)
	_, err = down.IssueCredential(ctx, "bob@example.com", "secret123", "Bob")
	assert.ErrorIs(t, err, core.ErrCollaboratorUnavailable)
}

func TestSignInRejectsWithoutDetail(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(&credentialStore{}, time.Now)
	_, err := g.IssueCredential(ctx, "ann@example.com", "secret123", "Ann")
	require.NoError(t, err)

	_, _, wrongPassword := g.SignIn(ctx, "ann@example.com", "wrong-password")
	_, _, unknownEmail := g.SignIn(ctx, "nobody@example.com", "secret123")

	assert.ErrorIs(t, wrongPassword, core.ErrAuthInvalid)
	assert.ErrorIs(t, unknownEmail, core.ErrAuthInvalid)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestVerifyCredentialRejects(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := now
	g := newTestGateway(&credentialStore{}, func() time.Time { return clock })

	token, err := g.Token("uid-1", "a@example.com", "A")
	require.NoError(t, err)

	otherKey := NewGateway(&credentialStore{}, []byte("another-secret-another-secret!!"), WithGatewayClock(func() time.Time { return now }))
	foreign, err := otherKey.Token("uid-1", "a@example.com", "A")
	require.NoError(t, err)

	otherIssuer := NewGateway(&credentialStore{}, secret, WithIssuer("someone-else"), WithGatewayClock(func() time.Time { return now }))
	wrongIssuer, err := otherIssuer.Token("uid-1", "a@example.com", "A")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"tampered", token + "x"},
		{"foreign key", foreign},
		{"wrong issuer", wrongIssuer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.VerifyCredential(ctx, tt.token)
			assert.ErrorIs(t, err, core.ErrAuthInvalid)
		})
	}

	t.Run("expired", func(t *testing.T) {
		clock = now.Add(2 * time.Hour)
		defer func() { clock = now }()
		_, err := g.VerifyCredential(ctx, token)
		assert.ErrorIs(t, err, core.ErrAuthInvalid)
	})
}

func TestDecodeSecret(t *testing.T) {
	b, err := DecodeSecret("c2VjcmV0")
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), b)

	_, err = DecodeSecret("")
	assert.Error(t, err)
	_, err = DecodeSecret("%%%")
	assert.Error(t, err)
}
