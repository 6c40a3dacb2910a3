// Package login реализует HTTP-обработчик входа пользователя.
//
// Обработчик декодирует и валидирует тело запроса, передаёт проверку
// учётных данных сервису и при успехе устанавливает cookie с токеном сессии.
// Ответ всегда имеет HTTP-статус 200, результат передаётся в поле success.
package login

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

// Request — структура входных данных для входа.
type Request struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log        *slog.Logger        // Логгер для записи операций и ошибок
	auth       Service             // Сервис аутентификации
	validate   *validator.Validate // Валидатор для проверки входных данных
	production bool                // Режим cookie для production
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service, production bool) *Handler {
	return &Handler{
		log:        log,
		auth:       auth,
		validate:   validator.New(),
		production: production,
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет email и пароль. При успехе устанавливает cookie token и возвращает токен и профиль.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.Response{data=models.AuthPayload} "Результат входа"
// @Router /api/auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

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

	sess, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindStorage {
			log.Error("login failed", sl.Err(err))
		} else {
			log.Info("login rejected", sl.Err(err))
		}
		render.JSON(w, r, response.Error(apperr.MessageOf(err, "Login failed")))
		return
	}

	http.SetCookie(w, cookie.New(sess.Token, h.production))

	log.Info("login success", slog.String("user_id", sess.User.ID))
	render.JSON(w, r, response.OKWithData(models.AuthPayload{
		Token: sess.Token,
		User:  sess.User,
	}))
}
