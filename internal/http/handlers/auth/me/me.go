// Package me реализует HTTP-обработчик получения профиля текущего пользователя.
// Обработчик ожидает, что ID пользователя уже положен в контекст middleware аутентификации.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blogapp/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blogapp/internal/http/response"
	"github.com/magabrotheeeer/blogapp/internal/lib/apperr"
	"github.com/magabrotheeeer/blogapp/internal/lib/sl"
)

// Handler возвращает профиль пользователя сессии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Description Возвращает профиль владельца токена из cookie token или заголовка Authorization
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response{data=models.Profile} "Профиль"
// @Failure 401 {object} response.Response "Нет действительной сессии"
// @Router /api/auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user id missing in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		log.Error("failed to load profile", slog.String("user_id", userID), sl.Err(err))
		render.JSON(w, r, response.Error(apperr.MessageOf(err, "failed to load profile")))
		return
	}

	render.JSON(w, r, response.OKWithData(profile))
}
