package security

import (
	"context"
	"errors"
	"strings"
	"time"

	"axiapac.com/attendance/core"
	"axiapac.com/attendance/model"
	"axiapac.com/attendance/utils"
)

const (
	DefaultIssuer     = "attendance"
	DefaultTokenTTL   = 24 * time.Hour
	MinPasswordLength = 6
)

// CredentialStore keeps identity records. Absent rows are core.ErrNoRecord;
// a taken email is *core.DuplicateFieldError.
type CredentialStore interface {
	PutCredential(ctx context.Context, credential *model.Credential) error
	GetCredentialByEmail(ctx context.Context, email string) (*model.Credential, error)
}

// Gateway is the identity provider: it owns credentials and signs tokens.
type Gateway struct {
	store  CredentialStore
	hasher Hasher
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time

	// compared against when the email is unknown so both paths cost a hash
	dummyHash string
}

type GatewayOption func(*Gateway)

func WithIssuer(issuer string) GatewayOption {
	return func(g *Gateway) {
		if issuer != "" {
			g.issuer = issuer
		}
	}
}

func WithTokenTTL(ttl time.Duration) GatewayOption {
	return func(g *Gateway) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

func WithHasher(h Hasher) GatewayOption {
	return func(g *Gateway) { g.hasher = h }
}

func WithGatewayClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) { g.now = now }
}

func NewGateway(store CredentialStore, secret []byte, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		store:  store,
		hasher: BcryptHasher{},
		secret: secret,
		issuer: DefaultIssuer,
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if hash, _, err := g.hasher.Hash("attendance-dummy-password"); err == nil {
		g.dummyHash = hash
	}
	return g
}

func (g *Gateway) IssueCredential(ctx context.Context, email, password, displayName string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", core.IssuanceFailed("invalid email")
	}
	if len(password) < MinPasswordLength {
		return "", core.IssuanceFailed("password must be at least 6 characters")
	}

	hash, algo, err := g.hasher.Hash(password)
	if err != nil {
		return "", core.IssuanceFailed(err.Error())
	}

	credential := &model.Credential{
		UID:          utils.NewKSUID(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		PasswordAlgo: algo,
		CreatedAt:    g.now().UTC(),
	}
	if err := g.store.PutCredential(ctx, credential); err != nil {
		var dup *core.DuplicateFieldError
		if errors.As(err, &dup) {
			return "", core.IssuanceFailed("email already registered")
		}
		return "", core.Unavailable(err)
	}
	return credential.UID, nil
}

// VerifyCredential resolves a token to its user id.
func (g *Gateway) VerifyCredential(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", core.ErrAuthInvalid
	}
	claims, err := ParseIdentityToken(token, g.secret, g.issuer, g.now())
	if err != nil {
		return "", core.ErrAuthInvalid
	}
	return claims.UID, nil
}

func (g *Gateway) SignIn(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	credential, err := g.store.GetCredentialByEmail(ctx, email)
	if errors.Is(err, core.ErrNoRecord) {
		g.hasher.Compare(g.dummyHash, password)
		return "", "", core.ErrAuthInvalid
	}
	if err != nil {
		return "", "", core.Unavailable(err)
	}
	if !g.hasher.Compare(credential.PasswordHash, password) {
		return "", "", core.ErrAuthInvalid
	}

	token, err := g.Token(credential.UID, credential.Email, credential.DisplayName)
	if err != nil {
		return "", "", err
	}
	return credential.UID, token, nil
}

// Token signs a token for uid without checking a password.
func (g *Gateway) Token(uid, email, name string) (string, error) {
	return CreateIdentityToken(&Identity{UID: uid, Email: email, Name: name}, g.secret, g.issuer, g.ttl, g.now())
}
