// Package apperr описывает таксономию ошибок предметной области:
// ошибки валидации, конфликта, аутентификации и хранилища.
//
// Сервисы возвращают *Error, а HTTP-слой и клиент по Kind решают,
// какое сообщение показать пользователю.
package apperr

import "errors"

// Kind — категория ошибки.
type Kind int

const (
	// KindUnknown — ошибка вне таксономии.
	KindUnknown Kind = iota
	// KindValidation — не заполнены или некорректны входные данные.
	KindValidation
	// KindConflict — запись уже существует (например, email занят).
	KindConflict
	// KindAuth — неверные учётные данные или невалидный токен.
	KindAuth
	// KindStorage — недоступна БД или повреждён локальный кэш.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error — ошибка с категорией и сообщением для пользователя.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation создаёт ошибку валидации.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Conflict создаёт ошибку конфликта.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Auth создаёт ошибку аутентификации.
func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

// Storage оборачивает ошибку хранилища.
func Storage(msg string, err error) *Error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

// KindOf возвращает категорию ошибки или KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf возвращает сообщение для пользователя либо fallback,
// если ошибка не из таксономии.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
