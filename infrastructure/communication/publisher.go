package communication

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"axiapac.com/attendance/model"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	RoutingAccountCreated       = "account.created"
	RoutingAccountStatusChanged = "account.status_changed"
)

type AccountCreatedEvent struct {
	UID        string     `json:"uid"`
	Email      string     `json:"email"`
	EmployeeID string     `json:"employeeId"`
	Type       model.Role `json:"type"`
	CreatedBy  string     `json:"createdBy"`
	At         time.Time  `json:"at"`
}

type AccountStatusChangedEvent struct {
	UID      string    `json:"uid"`
	IsActive bool      `json:"isActive"`
	ActorID  string    `json:"actorId"`
	At       time.Time `json:"at"`
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher emits account events to a RabbitMQ topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	now      func() time.Time
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange, now: time.Now}, nil
}

func (p *Publisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now(),
		Body:         b,
	})
}

func (p *Publisher) AccountCreated(ctx context.Context, account *model.UserAccount) error {
	return p.PublishJSON(ctx, RoutingAccountCreated, AccountCreatedEvent{
		UID:        account.ID,
		Email:      account.Email,
		EmployeeID: account.EmployeeID,
		Type:       account.Role,
		CreatedBy:  account.CreatedBy,
		At:         p.now().UTC(),
	})
}

func (p *Publisher) AccountStatusChanged(ctx context.Context, accountID string, isActive bool, actorID string) error {
	return p.PublishJSON(ctx, RoutingAccountStatusChanged, AccountStatusChangedEvent{
		UID:      accountID,
		IsActive: isActive,
		ActorID:  actorID,
		At:       p.now().UTC(),
	})
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
