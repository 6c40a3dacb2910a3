// Package logout реализует HTTP-обработчик выхода пользователя.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blogapp/internal/http/response"
	"github.com/magabrotheeeer/blogapp/internal/lib/cookie"
)

// MsgLoggedOut — ответ на успешный выход.
const MsgLoggedOut = "Logged out successfully"

// Handler удаляет cookie сессии. Токен не хранится на сервере,
// поэтому выход всегда успешен.
type Handler struct {
	log        *slog.Logger
	production bool
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, production bool) *Handler {
	return &Handler{
		log:        log,
		production: production,
	}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Удаляет cookie token
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Выход выполнен"
// @Router /api/auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	http.SetCookie(w, cookie.Clear(h.production))

	log.Info("session cookie cleared")
	render.JSON(w, r, response.OKWithMessage(MsgLoggedOut))
}
