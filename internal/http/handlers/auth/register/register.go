// Package register реализует HTTP-обработчик для регистрации новых пользователей.
package register

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/blogapp/internal/http/response"
	"github.com/magabrotheeeer/blogapp/internal/lib/apperr"
	"github.com/magabrotheeeer/blogapp/internal/lib/cookie"
	"github.com/magabrotheeeer/blogapp/internal/lib/sl"
	"github.com/magabrotheeeer/blogapp/internal/models"
)

// Request — входные данные для регистрации
type Request struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Handler обрабатывает HTTP-запросы регистрации пользователей.
//
// Включает логгер для записи операций, сервис аутентификации
// и валидатор для проверки входящих данных.
type Handler struct {
	log        *slog.Logger
	auth       Service
	validate   *validator.Validate
	production bool
}

// New создает новый экземпляр Handler с заданным логгером и сервисом аутентификации.
func New(log *slog.Logger, auth Service, production bool) *Handler {
	return &Handler{
		log:        log,
		auth:       auth,
		validate:   validator.New(),
		production: production,
	}
}

// ServeHTTP godoc
// @Summary Регистрация нового пользователя
// @Description Создает пользователя по name, email и password, устанавливает cookie token
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 200 {object} response.Response{data=models.AuthPayload} "Результат регистрации"
// @Router /api/auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Debug("request body decoded", slog.String("name", req.Name), slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		render.JSON(w, r, response.Error(response.MsgFieldsRequired))
		return
	}

	sess, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindStorage {
			log.Error("registration failed", sl.Err(err))
		} else {
			log.Info("registration rejected", sl.Err(err))
		}
		render.JSON(w, r, response.Error(apperr.MessageOf(err, "Registration failed")))
		return
	}

	http.SetCookie(w, cookie.New(sess.Token, h.production))

	log.Info("register success", slog.String("user_id", sess.User.ID), slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(models.AuthPayload{
		Token: sess.Token,
		User:  sess.User,
	}))
}
