// Package cookie формирует cookie сессии, в которой сервер передаёт токен клиенту.
//
// Cookie всегда http-only. В production она Secure и SameSite=None, чтобы
// браузерный клиент с другого origin мог её отправлять; в остальных
// окружениях — SameSite=Strict.
package cookie

import (
	"net/http"
	"time"
)

const (
	// Name — имя cookie с токеном сессии.
	Name = "token"
	// MaxAge — время жизни cookie, совпадает со сроком жизни токена.
	MaxAge = 7 * 24 * time.Hour
)

// New возвращает cookie с токеном сессии.
func New(token string, production bool) *http.Cookie {
	c := base(production)
	c.Value = token
	c.MaxAge = int(MaxAge.Seconds())
	c.Expires = time.Now().Add(MaxAge)
	return c
}

// Clear возвращает cookie, удаляющую токен сессии в браузере.
// Атрибуты совпадают с New, иначе браузер не сопоставит cookie.
func Clear(production bool) *http.Cookie {
	c := base(production)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}

func base(production bool) *http.Cookie {
	c := &http.Cookie{
		Name:     Name,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	if production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}
