// Package notifier собирает воркер, рассылающий приветственные письма по событиям регистрации.
package notifier

import (
	"context"
	"errors"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/blogapp/internal/config"
	"github.com/magabrotheeeer/blogapp/internal/lib/sl"
	"github.com/magabrotheeeer/blogapp/internal/lib/smtp"
	"github.com/magabrotheeeer/blogapp/internal/rabbitmq"
	notifierservice "github.com/magabrotheeeer/blogapp/internal/services/notifier"
)

// ErrBrokerRequired возвращается, когда в конфигурации не задан адрес RabbitMQ.
var ErrBrokerRequired = errors.New("notifier: rabbitmq url is required")

// ErrSMTPRequired возвращается, когда в конфигурации не задан SMTP-сервер.
var ErrSMTPRequired = errors.New("notifier: smtp host is required")

type App struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	sender  *notifierservice.WelcomeSender
	workers int
	logger  *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.RabbitMQ.URL == "" {
		return nil, ErrBrokerRequired
	}
	if cfg.SMTPHost == "" {
		return nil, ErrSMTPRequired
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.GetAuthQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.Qos(max(cfg.Workers, 1), 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)

	return &App{
		conn:    conn,
		ch:      ch,
		sender:  notifierservice.NewWelcomeSender(logger, transport),
		workers: cfg.Workers,
		logger:  logger,
	}, nil
}

// Run обрабатывает очередь до отмены ctx, затем закрывает канал и соединение.
func (a *App) Run(ctx context.Context) error {
	queue := rabbitmq.GetAuthQueues()[0].QueueName
	a.logger.Info("notifier started", slog.String("queue", queue), slog.Int("workers", a.workers))

	err := rabbitmq.ConsumerMessage(ctx, a.ch, queue, a.workers, a.logger, a.sender.HandleUserRegistered)
	if err != nil {
		a.logger.Error("failed to consume queue", slog.String("queue", queue), sl.Err(err))
	}

	a.logger.Info("notifier shutting down gracefully")

	if closeErr := a.ch.Close(); closeErr != nil {
		a.logger.Error("failed to close channel", sl.Err(closeErr))
	}
	if closeErr := a.conn.Close(); closeErr != nil {
		a.logger.Error("failed to close connection", sl.Err(closeErr))
	}

	return err
}
