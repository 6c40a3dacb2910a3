// Package result реализует тегированный результат операции:
// успех несёт значение, неуспех — категорию ошибки и сообщение.
package result

import "github.com/magabrotheeeer/blogapp/internal/lib/apperr"

// Result — результат операции, которая не возвращает error вызывающему.
type Result[T any] struct {
	ok      bool
	value   T
	kind    apperr.Kind
	message string
}

// OK создаёт успешный результат.
func OK[T any](value T) Result[T] {
	return Result[T]{ok: true, value: value}
}

// Fail создаёт неуспешный результат.
func Fail[T any](kind apperr.Kind, message string) Result[T] {
	return Result[T]{kind: kind, message: message}
}

// FromError строит неуспешный результат из ошибки.
// Сообщение берётся из apperr.Error, иначе используется fallback.
func FromError[T any](err error, fallback string) Result[T] {
	return Fail[T](apperr.KindOf(err), apperr.MessageOf(err, fallback))
}

// IsOK сообщает, успешен ли результат.
func (r Result[T]) IsOK() bool {
	return r.ok
}

// Value возвращает значение и признак успеха.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.ok
}

// Kind возвращает категорию ошибки; для успеха — KindUnknown.
func (r Result[T]) Kind() apperr.Kind {
	return r.kind
}

// Message возвращает сообщение об ошибке; для успеха — пустую строку.
func (r Result[T]) Message() string {
	return r.message
}
