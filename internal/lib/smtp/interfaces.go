// Package smtp открывает соединения с почтовым сервером для отправки писем.
package smtp

import "io"

// Client — команды SMTP-сессии, нужные для отправки одного письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface выдаёт готовые к отправке клиенты и адрес отправителя.
type TransportInterface interface {
	Connect() (Client, error)
	From() string
}
