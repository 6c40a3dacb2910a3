// Package storage содержит общие для всех драйверов ошибки хранилища пользователей.
package storage

import "errors"

var (
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists возвращается при нарушении уникальности email.
	ErrUserExists = errors.New("user already exists")
)
