// Package profile отдаёт профиль аутентифицированного пользователя.
package profile

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/auth-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/auth-api/internal/http/response"
	"github.com/magabrotheeeer/auth-api/internal/models"
)

// Data полезная нагрузка успешного ответа.
type Data struct {
	User models.PublicUser `json:"user"`
}

// Handler читает пользователя, положенного в контекст JWTMiddleware.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=Data} "Профиль"
// @Failure 401 {object} response.ErrorResponse "Нет токена или токен недействителен"
// @Router /auth/profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.Fail(w, r, log, models.ErrAccessTokenRequired)
		return
	}

	response.JSON(w, r, http.StatusOK, response.OK("Profile retrieved successfully", Data{
		User: user.Public(),
	}))
}
