package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/blogapp/internal/models"
)

// Channel — часть *amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// UserRegisteredEvent — тело события о регистрации пользователя.
type UserRegisteredEvent struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Publisher публикует события в exchange.
type Publisher struct {
	ch       Channel
	exchange string
}

// NewPublisher создаёт Publisher поверх канала.
func NewPublisher(ch Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// PublishUserRegistered публикует событие user.registered.
func (p *Publisher) PublishUserRegistered(ctx context.Context, profile models.Profile) error {
	return p.publish(ctx, UserRegisteredKey, UserRegisteredEvent{
		UserID:       profile.ID,
		Name:         profile.Name,
		Email:        profile.Email,
		RegisteredAt: time.Now().UTC(),
	})
}

func (p *Publisher) publish(ctx context.Context, routingKey string, message any) error {
	const op = "rabbitmq.Publish"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NopPublisher используется, когда брокер не настроен.
type NopPublisher struct{}

// PublishUserRegistered ничего не делает.
func (NopPublisher) PublishUserRegistered(context.Context, models.Profile) error {
	return nil
}
