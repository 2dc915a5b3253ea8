package communication

import (
	"context"
	"errors"

	"axiapac.com/attendance/core"
	"axiapac.com/attendance/model"
)

// Multi delivers every event to all notifiers and joins their errors.
type Multi []core.Notifier

func (m Multi) AccountCreated(ctx context.Context, account *model.UserAccount) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.AccountCreated(ctx, account))
	}
	return errors.Join(errs...)
}

func (m Multi) AccountStatusChanged(ctx context.Context, accountID string, isActive bool, actorID string) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.AccountStatusChanged(ctx, accountID, isActive, actorID))
	}
	return errors.Join(errs...)
}

var (
	_ core.Notifier = (*Slack)(nil)
	_ core.Notifier = (*Mailer)(nil)
	_ core.Notifier = (*Publisher)(nil)
	_ core.Notifier = Multi(nil)
)
