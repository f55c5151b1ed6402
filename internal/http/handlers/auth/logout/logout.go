// Package logout реализует выход пользователя.
//
// Токены не хранятся на сервере и не отзываются, поэтому выход лишь
// подтверждает запрос. Клиент должен сам забыть токен.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/auth-api/internal/http/response"
)

// Handler обрабатывает запросы на выход.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Выход выполнен"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.log.Debug("logout",
		slog.String("op", "handlers.auth.logout"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	response.JSON(w, r, http.StatusOK, response.OK("Logged out successfully", nil))
}
