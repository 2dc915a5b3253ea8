package communication

import (
	"context"
	"fmt"

	"axiapac.com/attendance/model"
	"github.com/slack-go/slack"
)

type Slack struct {
	client  *slack.Client
	options SlackOption
}

type SlackOption struct {
	InfoChannelID  string
	ErrorChannelID string
}

func NewSlack(token string, options SlackOption) *Slack {
	client := slack.New(token)
	return &Slack{client: client, options: options}
}

func (s *Slack) postMessage(ctx context.Context, channelID, message string) error {
	_, _, err := s.client.PostMessageContext(
		ctx,
		channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

func (s *Slack) Info(ctx context.Context, message string) error {
	return s.postMessage(ctx, s.options.InfoChannelID, message)
}

// Error posts to the error channel, or the info channel when none is set.
func (s *Slack) Error(ctx context.Context, message string) error {
	channel := s.options.ErrorChannelID
	if channel == "" {
		channel = s.options.InfoChannelID
	}
	return s.postMessage(ctx, channel, message)
}

func (s *Slack) AccountCreated(ctx context.Context, account *model.UserAccount) error {
	return s.Info(ctx, accountCreatedMessage(account))
}

func (s *Slack) AccountStatusChanged(ctx context.Context, accountID string, isActive bool, actorID string) error {
	return s.Info(ctx, statusChangedMessage(accountID, isActive, actorID))
}

func accountCreatedMessage(account *model.UserAccount) string {
	role := string(account.Role)
	if account.AdminRole != model.AdminRoleNone {
		role += "/" + string(account.AdminRole)
	}
	return fmt.Sprintf("New %s account: %s <%s> (employee %s), created by %s",
		role, account.DisplayName(), account.Email, account.EmployeeID, account.CreatedBy)
}

func statusChangedMessage(accountID string, isActive bool, actorID string) string {
	state := "deactivated"
	if isActive {
		state = "activated"
	}
	return fmt.Sprintf("Account %s %s by %s", accountID, state, actorID)
}
