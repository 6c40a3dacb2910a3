package services

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/blogapp/internal/lib/smtp"
	"github.com/magabrotheeeer/blogapp/internal/rabbitmq"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) From() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
	written []byte
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	m.written = append(m.written, p...)
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const eventBody = `{"user_id":"u1","name":"alice","email":"alice@example.com","registered_at":"2026-01-01T00:00:00Z"}`

func TestWelcomeSender_HandleUserRegistered(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		transport := new(MockTransport)
		client := new(MockSMTPClient)
		writer := new(MockSMTPWriter)

		transport.On("From").Return("no-reply@blog.test")
		transport.On("Connect").Return(client, nil).Once()
		client.On("Mail", "no-reply@blog.test").Return(nil).Once()
		client.On("Rcpt", "alice@example.com").Return(nil).Once()
		client.On("Data").Return(writer, nil).Once()
		writer.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
		writer.On("Close").Return(nil).Once()
		client.On("Quit").Return(nil).Once()
		client.On("Close").Return(nil).Once()

		err := NewWelcomeSender(newNoopLogger(), transport).HandleUserRegistered([]byte(eventBody))
		assert.NoError(t, err)

		msg := string(writer.written)
		assert.Contains(t, msg, "From: no-reply@blog.test\r\n")
		assert.Contains(t, msg, "To: alice@example.com\r\n")
		assert.Contains(t, msg, "Subject: "+welcomeSubject)
		assert.Contains(t, msg, "Здравствуйте, alice!")

		transport.AssertExpectations(t)
		client.AssertExpectations(t)
		writer.AssertExpectations(t)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		transport := new(MockTransport)

		err := NewWelcomeSender(newNoopLogger(), transport).HandleUserRegistered([]byte(`invalid json`))
		assert.ErrorIs(t, err, rabbitmq.ErrUnprocessable)
		assert.ErrorContains(t, err, "error unmarshalling message")
		transport.AssertNotCalled(t, "Connect")
	})

	t.Run("missing email", func(t *testing.T) {
		transport := new(MockTransport)

		err := NewWelcomeSender(newNoopLogger(), transport).HandleUserRegistered([]byte(`{"user_id":"u1"}`))
		assert.ErrorIs(t, err, rabbitmq.ErrUnprocessable)
		transport.AssertNotCalled(t, "Connect")
	})

	t.Run("connection error is retryable", func(t *testing.T) {
		transport := new(MockTransport)
		transport.On("From").Return("no-reply@blog.test")
		transport.On("Connect").Return(nil, errors.New("connection error")).Once()

		err := NewWelcomeSender(newNoopLogger(), transport).HandleUserRegistered([]byte(eventBody))
		assert.ErrorContains(t, err, "connection error")
		assert.NotErrorIs(t, err, rabbitmq.ErrUnprocessable)
		transport.AssertExpectations(t)
	})
}

func TestWelcomeSender_SMTPErrorHandling(t *testing.T) {
	tests := []struct {
		name         string
		setupClient  func(*MockSMTPClient)
		errorMessage string
	}{
		{
			name: "SMTP Mail error",
			setupClient: func(c *MockSMTPClient) {
				c.On("Mail", "no-reply@blog.test").Return(errors.New("mail error")).Once()
			},
			errorMessage: "mail error",
		},
		{
			name: "SMTP Rcpt error",
			setupClient: func(c *MockSMTPClient) {
				c.On("Mail", "no-reply@blog.test").Return(nil).Once()
				c.On("Rcpt", "alice@example.com").Return(errors.New("rcpt error")).Once()
			},
			errorMessage: "rcpt error",
		},
		{
			name: "SMTP Data error",
			setupClient: func(c *MockSMTPClient) {
				c.On("Mail", "no-reply@blog.test").Return(nil).Once()
				c.On("Rcpt", "alice@example.com").Return(nil).Once()
				c.On("Data").Return(nil, errors.New("data error")).Once()
			},
			errorMessage: "data error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			client := new(MockSMTPClient)

			transport.On("From").Return("no-reply@blog.test")
			transport.On("Connect").Return(client, nil).Once()
			tt.setupClient(client)
			client.On("Close").Return(nil).Once()

			err := NewWelcomeSender(newNoopLogger(), transport).HandleUserRegistered([]byte(eventBody))
			assert.ErrorContains(t, err, tt.errorMessage)

			transport.AssertExpectations(t)
			client.AssertExpectations(t)
		})
	}
}
