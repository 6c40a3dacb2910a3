// Package middlewarectx содержит HTTP middleware сервиса: проверку токена
// сессии и ограничение частоты запросов.
//
// JWTMiddleware берёт токен из cookie token или заголовка
// Authorization: Bearer, проверяет его через сервис аутентификации и кладёт
// ID пользователя в контекст запроса. При ошибке возвращает 401.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blogapp/internal/http/response"
	"github.com/magabrotheeeer/blogapp/internal/lib/cookie"
	"github.com/magabrotheeeer/blogapp/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// UserID — ключ для ID пользователя в контексте.
const UserID Key = "user_id"

// Service описывает интерфейс сервиса для валидации токена сессии.
type Service interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

// WithUserID возвращает контекст с ID пользователя.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserID, userID)
}

// UserIDFromContext достаёт ID пользователя, положенный JWTMiddleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserID).(string)
	return id, ok && id != ""
}

// JWTMiddleware возвращает HTTP middleware, который проверяет токен сессии.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := tokenFromRequest(r)
			if token == "" {
				log.Info("missing session token")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing session token"))
				return
			}

			userID, err := authService.ValidateToken(r.Context(), token)
			if err != nil {
				log.Info("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// tokenFromRequest отдаёт приоритет cookie, затем заголовку Authorization.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(cookie.Name); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}
