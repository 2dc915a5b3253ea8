package communication

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"axiapac.com/attendance/model"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var newAccount = &model.UserAccount{
	ID:         "uid-1",
	FirstName:  "Ann",
	LastName:   "Lee",
	Email:      "ann@example.com",
	Username:   "ann",
	EmployeeID: "E-1",
	Role:       model.RoleAdmin,
	AdminRole:  model.AdminRoleEditor,
	CreatedBy:  "root",
}

func TestBuildEmailBuffer(t *testing.T) {
	buf, err := BuildEmailBuffer(&EmailInfo{
		From:    "hr@example.com",
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "Hello",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
		Attachments: []Attachment{
			{Filename: "roster.csv", ContentType: "text/csv", Content: []byte("a,b\n1,2\n")},
		},
	})
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "From: hr@example.com\r\n")
	assert.Contains(t, raw, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, raw, "Subject: Hello\r\n")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "plain body")
	assert.Contains(t, raw, "<p>html body</p>")
	assert.Contains(t, raw, `attachment; filename="roster.csv"`)
	assert.Contains(t, raw, "YSxiCjEsMgo=")

	_, err = BuildEmailBuffer(&EmailInfo{From: "hr@example.com"})
	assert.Error(t, err)
}

type fakeSES struct {
	raw []byte
	err error
}

func (f *fakeSES) SendRawEmail(_ context.Context, in *ses.SendRawEmailInput, _ ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.raw = in.RawMessage.Data
	return &ses.SendRawEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestMailerWelcome(t *testing.T) {
	fake := &fakeSES{}
	m := &Mailer{client: fake, from: "noreply@example.com"}

	require.NoError(t, m.AccountCreated(context.Background(), newAccount))
	raw := string(fake.raw)
	assert.Contains(t, raw, "To: ann@example.com\r\n")
	assert.Contains(t, raw, "Hi Ann Lee")
	assert.NoError(t, m.AccountStatusChanged(context.Background(), "uid-1", false, "root"))

	fake.err = errors.New("throttled")
	assert.ErrorContains(t, m.AccountCreated(context.Background(), newAccount), "throttled")
}

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	sent []published
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.sent = append(f.sent, published{exchange, key, msg})
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestPublisherEvents(t *testing.T) {
	ch := &fakeChannel{}
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	p := &Publisher{ch: ch, exchange: "attendance.events", now: func() time.Time { return at }}

	require.NoError(t, p.AccountCreated(context.Background(), newAccount))
	require.NoError(t, p.AccountStatusChanged(context.Background(), "uid-1", false, "root"))
	require.Len(t, ch.sent, 2)

	assert.Equal(t, "attendance.events", ch.sent[0].exchange)
	assert.Equal(t, RoutingAccountCreated, ch.sent[0].key)
	assert.Equal(t, "application/json", ch.sent[0].msg.ContentType)
	var created AccountCreatedEvent
	require.NoError(t, json.Unmarshal(ch.sent[0].msg.Body, &created))
	assert.Equal(t, "uid-1", created.UID)
	assert.Equal(t, model.RoleAdmin, created.Type)

	assert.Equal(t, RoutingAccountStatusChanged, ch.sent[1].key)
	var changed AccountStatusChangedEvent
	require.NoError(t, json.Unmarshal(ch.sent[1].msg.Body, &changed))
	assert.False(t, changed.IsActive)
	assert.Equal(t, "root", changed.ActorID)
}

type countingNotifier struct {
	created, changed int
	err              error
}

func (c *countingNotifier) AccountCreated(context.Context, *model.UserAccount) error {
	c.created++
	return c.err
}

func (c *countingNotifier) AccountStatusChanged(context.Context, string, bool, string) error {
	c.changed++
	return c.err
}

func TestMultiDeliversToAll(t *testing.T) {
	failing := &countingNotifier{err: errors.New("slack down")}
	ok := &countingNotifier{}
	m := Multi{failing, ok}

	err := m.AccountCreated(context.Background(), newAccount)
	assert.ErrorContains(t, err, "slack down")
	assert.Equal(t, 1, failing.created)
	assert.Equal(t, 1, ok.created)

	failing.err = nil
	assert.NoError(t, m.AccountStatusChanged(context.Background(), "uid-1", true, "root"))
	assert.Equal(t, 1, ok.changed)
}

func TestSlackMessages(t *testing.T) {
	assert.Equal(t, "New admin/editor account: Ann Lee <ann@example.com> (employee E-1), created by root",
		accountCreatedMessage(newAccount))
	assert.Equal(t, "Account uid-1 deactivated by root", statusChangedMessage("uid-1", false, "root"))
	assert.True(t, strings.HasSuffix(statusChangedMessage("uid-1", true, "root"), "activated by root"))
}
