// Package services отправляет пользователям письма по доменным событиям сервиса аутентификации.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/blogapp/internal/lib/sl"
	"github.com/magabrotheeeer/blogapp/internal/lib/smtp"
	"github.com/magabrotheeeer/blogapp/internal/rabbitmq"
)

const welcomeSubject = "Добро пожаловать в блог"

// WelcomeSender отправляет приветственное письмо после регистрации.
type WelcomeSender struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewWelcomeSender создает новый экземпляр WelcomeSender.
func NewWelcomeSender(log *slog.Logger, transport smtp.TransportInterface) *WelcomeSender {
	return &WelcomeSender{
		transport: transport,
		log:       log,
	}
}

// HandleUserRegistered обрабатывает тело события user.registered.
// Нечитаемое событие или событие без адреса помечается rabbitmq.ErrUnprocessable.
func (s *WelcomeSender) HandleUserRegistered(body []byte) error {
	const op = "services.WelcomeSender.HandleUserRegistered"
	log := s.log.With(slog.String("op", op))

	var event rabbitmq.UserRegisteredEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: error unmarshalling message: %w: %w", op, rabbitmq.ErrUnprocessable, err)
	}
	if event.Email == "" {
		log.Warn("event without email", slog.String("user_id", event.UserID))
		return fmt.Errorf("%s: empty email: %w", op, rabbitmq.ErrUnprocessable)
	}

	name := event.Name
	if name == "" {
		name = event.Email
	}
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаша учётная запись создана. Войдите с адресом %s, чтобы начать писать.",
		name, event.Email)

	if err := s.sendEmail([]string{event.Email}, welcomeSubject, bodyText); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("welcome email sent", slog.String("user_id", event.UserID))
	return nil
}

func (s *WelcomeSender) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.From()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	return nil
}
