package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"axiapac.com/attendance/model"
	"axiapac.com/attendance/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxProfileImageSize = 5 << 20

var (
	profileImageType = regexp.MustCompile(`^image/(png|jpe?g|webp|gif|bmp|svg\+xml)$`)
	validate         = validator.New()
)

type NewAccount struct {
	FirstName  string
	LastName   string
	Email      string
	Username   string
	EmployeeID string
	NationalID string
	Password   string
	Role       model.Role
	AdminRole  model.AdminRole

	ProfileImage *ProfileImage
}

type ProfileImage struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (p *ProfileImage) Validate() error {
	if p.Size > MaxProfileImageSize {
		return invalid("profile image exceeds %d bytes", MaxProfileImageSize)
	}
	if !profileImageType.MatchString(strings.ToLower(p.ContentType)) {
		return invalid("only image files are allowed")
	}
	return nil
}

// normalize trims the profile, lower-cases the email and settles the
// admin role: admins default to editor, employees carry none.
func (n *NewAccount) normalize() error {
	n.FirstName = strings.TrimSpace(n.FirstName)
	n.LastName = strings.TrimSpace(n.LastName)
	n.Email = strings.ToLower(strings.TrimSpace(n.Email))
	n.Username = strings.TrimSpace(n.Username)
	n.EmployeeID = strings.TrimSpace(n.EmployeeID)
	n.NationalID = strings.TrimSpace(n.NationalID)

	if !n.Role.Valid() {
		return invalid("unknown account type %q", n.Role)
	}
	switch n.Role {
	case model.RoleAdmin:
		if n.AdminRole == model.AdminRoleNone {
			n.AdminRole = model.AdminRoleEditor
		}
		if n.AdminRole != model.AdminRoleEditor && n.AdminRole != model.AdminRoleSuperadmin {
			return invalid("unknown admin role %q", n.AdminRole)
		}
	case model.RoleEmployee:
		n.AdminRole = model.AdminRoleNone
	}

	for _, f := range model.UniqueFields {
		if n.value(f) == "" {
			return invalid("%s is required", f)
		}
	}
	if err := validate.Var(n.Email, "email"); err != nil {
		return invalid("email is not a valid address")
	}
	if n.Password == "" {
		return invalid("password is required")
	}
	if n.ProfileImage != nil {
		return n.ProfileImage.Validate()
	}
	return nil
}

func (n *NewAccount) value(f model.Field) string {
	switch f {
	case model.FieldEmail:
		return n.Email
	case model.FieldUsername:
		return n.Username
	case model.FieldEmployeeID:
		return n.EmployeeID
	case model.FieldNationalID:
		return n.NationalID
	}
	return ""
}

type AccountManager struct {
	store    DirectoryStore
	identity IdentityGateway
	images   ImageStore
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

type AccountOption func(*AccountManager)

func WithImageStore(images ImageStore) AccountOption {
	return func(m *AccountManager) { m.images = images }
}

func WithNotifier(notifier Notifier) AccountOption {
	return func(m *AccountManager) { m.notifier = notifier }
}

func WithClock(now func() time.Time) AccountOption {
	return func(m *AccountManager) { m.now = now }
}

func NewAccountManager(store DirectoryStore, identity IdentityGateway, logger *zap.Logger, opts ...AccountOption) *AccountManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &AccountManager{
		store:    store,
		identity: identity,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *AccountManager) resolveActor(ctx context.Context, actorID string) (*model.UserAccount, error) {
	if actorID == "" {
		return nil, ErrActorNotFound
	}
	actor, err := m.store.GetAccount(ctx, actorID)
	if errors.Is(err, ErrNoRecord) {
		return nil, ErrActorNotFound
	}
	if err != nil {
		return nil, Unavailable(err)
	}
	return actor, nil
}

// authorize resolves the actor and applies the policy for action.
func (m *AccountManager) authorize(ctx context.Context, actorID string, action Action) (*model.UserAccount, error) {
	actor, err := m.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor.Role, actor.AdminRole, action) {
		m.logger.Info("permission denied",
			zap.String("actor", actor.ID),
			zap.Stringer("action", action))
		return nil, ErrPermissionDenied
	}
	return actor, nil
}

// CreateAccount registers a new account on behalf of actorID. Credential
// issuance is not retried and has no rollback: on failure the caller
// retries the whole operation.
func (m *AccountManager) CreateAccount(ctx context.Context, actorID string, input NewAccount) (*model.UserAccount, error) {
	actor, err := m.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	// The request body is not inspected until the actor is allowed to
	// create the requested account type.
	action := CreateActionFor(input.Role)
	if !CanPerform(actor.Role, actor.AdminRole, action) {
		if action == ActionUnknown && CanPerform(actor.Role, actor.AdminRole, ActionCreateEmployee) {
			return nil, invalid("unknown account type %q", input.Role)
		}
		m.logger.Info("permission denied",
			zap.String("actor", actor.ID),
			zap.Stringer("action", action))
		return nil, ErrPermissionDenied
	}
	if err := input.normalize(); err != nil {
		return nil, err
	}
	return m.register(ctx, actor.ID, input)
}

// BootstrapCreator is recorded as createdBy on the first superadmin.
const BootstrapCreator = "bootstrap"

// Bootstrap creates the first superadmin without an actor. It is refused
// once any admin account exists.
func (m *AccountManager) Bootstrap(ctx context.Context, input NewAccount) (*model.UserAccount, error) {
	input.Role = model.RoleAdmin
	input.AdminRole = model.AdminRoleSuperadmin
	if err := input.normalize(); err != nil {
		return nil, err
	}

	accounts, err := m.store.ListAccounts(ctx)
	if err != nil {
		return nil, Unavailable(err)
	}
	if utils.Find(accounts, func(a model.UserAccount) bool { return a.Role == model.RoleAdmin }) != nil {
		return nil, ErrPermissionDenied
	}
	return m.register(ctx, BootstrapCreator, input)
}

// register runs the uniqueness checks, the image upload, credential
// issuance and the directory write for an already authorized request.
func (m *AccountManager) register(ctx context.Context, creatorID string, input NewAccount) (*model.UserAccount, error) {
	var err error
	for _, field := range model.UniqueFields {
		exists, err := m.store.AccountExists(ctx, field, input.value(field))
		if err != nil {
			return nil, Unavailable(err)
		}
		if exists {
			return nil, DuplicateField(field)
		}
	}

	imageURL := ""
	if input.ProfileImage != nil {
		if imageURL, err = m.storeImage(ctx, input.ProfileImage); err != nil {
			return nil, err
		}
	}

	account := &model.UserAccount{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Username:     input.Username,
		EmployeeID:   input.EmployeeID,
		NationalID:   input.NationalID,
		Role:         input.Role,
		AdminRole:    input.AdminRole,
		ProfileImage: imageURL,
	}

	uid, err := m.identity.IssueCredential(ctx, input.Email, input.Password, account.DisplayName())
	if err != nil {
		var iss *IssuanceFailedError
		if errors.As(err, &iss) {
			return nil, err
		}
		return nil, Unavailable(err)
	}

	account.ID = uid
	account.IsActive = true
	account.CreatedBy = creatorID
	account.CreatedAt = m.now().UTC()

	if err := m.store.PutAccount(ctx, account); err != nil {
		var dup *DuplicateFieldError
		if errors.As(err, &dup) {
			// lost a race with a concurrent registration
			m.logger.Warn("identity issued for rejected account",
				zap.String("uid", uid),
				zap.String("field", string(dup.Field)))
			return nil, err
		}
		return nil, Unavailable(err)
	}

	m.logger.Info("account created",
		zap.String("uid", account.ID),
		zap.String("type", string(account.Role)),
		zap.String("adminRole", string(account.AdminRole)),
		zap.String("createdBy", creatorID))

	m.notify(ctx, account.ID, func(n Notifier) error {
		return n.AccountCreated(ctx, account)
	})
	return account, nil
}

func (m *AccountManager) storeImage(ctx context.Context, img *ProfileImage) (string, error) {
	if m.images == nil {
		return "", invalid("profile image storage is not configured")
	}
	key := fmt.Sprintf("profiles/%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(img.Filename)))
	url, err := m.images.PutImage(ctx, key, img.ContentType, img.Body)
	if err != nil {
		return "", Unavailable(err)
	}
	return url, nil
}

// SetActiveStatus sets isActive on the target. Setting the current value
// again succeeds.
func (m *AccountManager) SetActiveStatus(ctx context.Context, actorID, targetID string, isActive bool) error {
	actor, err := m.authorize(ctx, actorID, ActionSetActiveStatus)
	if err != nil {
		return err
	}

	err = m.store.SetAccountActive(ctx, targetID, isActive)
	if errors.Is(err, ErrNoRecord) {
		return ErrTargetNotFound
	}
	if err != nil {
		return Unavailable(err)
	}

	m.logger.Info("account status changed",
		zap.String("uid", targetID),
		zap.Bool("isActive", isActive),
		zap.String("actor", actor.ID))

	m.notify(ctx, targetID, func(n Notifier) error {
		return n.AccountStatusChanged(ctx, targetID, isActive, actor.ID)
	})
	return nil
}

func (m *AccountManager) ListEmployees(ctx context.Context, actorID string) ([]model.UserAccount, error) {
	if _, err := m.authorize(ctx, actorID, ActionListEmployees); err != nil {
		return nil, err
	}
	accounts, err := m.store.ListAccounts(ctx)
	if err != nil {
		return nil, Unavailable(err)
	}
	return utils.Filter(accounts, func(a model.UserAccount) bool {
		return a.Role == model.RoleEmployee
	}), nil
}

// SignIn exchanges an email and password for the account and a token.
// Every rejection is reported as ErrAuthInvalid.
func (m *AccountManager) SignIn(ctx context.Context, email, password string) (*model.UserAccount, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	uid, token, err := m.identity.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrCollaboratorUnavailable) {
			return nil, "", err
		}
		return nil, "", ErrAuthInvalid
	}

	account, err := m.store.GetAccount(ctx, uid)
	if errors.Is(err, ErrNoRecord) {
		return nil, "", ErrAuthInvalid
	}
	if err != nil {
		return nil, "", Unavailable(err)
	}
	if !account.IsActive {
		return nil, "", ErrAuthInvalid
	}
	return account, token, nil
}

// Account resolves the calling account itself.
func (m *AccountManager) Account(ctx context.Context, actorID string) (*model.UserAccount, error) {
	return m.resolveActor(ctx, actorID)
}

func (m *AccountManager) notify(ctx context.Context, accountID string, send func(Notifier) error) {
	if m.notifier == nil {
		return
	}
	if err := send(m.notifier); err != nil {
		m.logger.Warn("account notification failed",
			zap.String("uid", accountID),
			zap.Error(err))
	}
}
