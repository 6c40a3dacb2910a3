// Package models содержит доменную модель пользователя блога:
// данные учётной записи, хэш пароля и дату создания.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя блога.
type User struct {
	ID           string    // Уникальный идентификатор пользователя
	Name         string    // Отображаемое имя
	Email        string    // Электронная почта (уникальная)
	PasswordHash string    // Хэш пароля пользователя
	CreatedAt    time.Time // Дата регистрации
}

// Profile — публичная часть пользователя, которую можно отдавать клиенту и кэшировать.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile возвращает публичный профиль пользователя.
func (u User) Profile() Profile {
	return Profile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// AuthPayload — данные успешной регистрации или входа: токен сессии и профиль.
type AuthPayload struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}
