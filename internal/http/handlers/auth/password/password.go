// Package password реализует смену пароля аутентифицированным пользователем.
package password

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/auth-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/auth-api/internal/http/response"
	"github.com/magabrotheeeer/auth-api/internal/lib/sl"
	"github.com/magabrotheeeer/auth-api/internal/models"
)

// MsgWrongCurrentPassword ответ на неверный текущий пароль.
const MsgWrongCurrentPassword = "Current password is incorrect"

// Request структура входных данных для смены пароля.
type Request struct {
	CurrentPassword string `json:"currentPassword" example:"Abcdef1!"`
	NewPassword     string `json:"newPassword" example:"Ghijkl2@"`
}

// Service описывает бизнес-логику смены пароля.
type Service interface {
	ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error
}

// Handler обрабатывает запросы на смену пароля.
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
// @Summary Смена пароля
// @Description Проверяет текущий пароль и задаёт новый по той же политике, что и при регистрации.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Текущий и новый пароль"
// @Success 200 {object} response.Response "Пароль изменён"
// @Failure 400 {object} response.ErrorResponse "Пустые поля или слабый пароль"
// @Failure 401 {object} response.ErrorResponse "Неверный текущий пароль или токен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.password"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.Fail(w, r, log, models.ErrAccessTokenRequired)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, log, models.ErrInvalidInput)
		return
	}

	err := h.service.ChangePassword(r.Context(), user, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, models.ErrInvalidCredentials) {
		log.Info("wrong current password", slog.String("user_id", user.UUID))
		response.JSON(w, r, http.StatusUnauthorized, response.Error(MsgWrongCurrentPassword))
		return
	}
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("password changed", slog.String("user_id", user.UUID))
	response.JSON(w, r, http.StatusOK, response.OK("Password changed successfully", nil))
}
