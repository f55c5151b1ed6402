// Package status реализует включение и отключение учётной записи администратором.
//
// Отключённый пользователь не может войти, а его действующие токены
// отклоняются middleware аутентификации при следующем запросе.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/auth-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/auth-api/internal/http/response"
	"github.com/magabrotheeeer/auth-api/internal/lib/sl"
	"github.com/magabrotheeeer/auth-api/internal/models"
)

// Request новое состояние учётной записи.
type Request struct {
	IsActive *bool `json:"isActive" validate:"required" example:"false"`
}

// Data полезная нагрузка успешного ответа.
type Data struct {
	User models.PublicUser `json:"user"`
}

// Service описывает бизнес-логику смены статуса.
type Service interface {
	SetActive(ctx context.Context, actor *models.User, userUID string, active bool) (*models.User, error)
}

// Handler обрабатывает запросы смены статуса пользователя.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Включить или отключить пользователя
// @Tags Users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "UID пользователя"
// @Param request body Request true "Новый статус"
// @Success 200 {object} response.Response{data=Data} "Статус изменён"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 401 {object} response.ErrorResponse "Нет токена или токен недействителен"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/{id}/status [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.UserFromContext(r.Context())
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
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.Fail(w, r, log, models.ErrAllFieldsRequired)
		return
	}

	id := chi.URLParam(r, "id")
	user, err := h.service.SetActive(r.Context(), actor, id, *req.IsActive)
	if errors.Is(err, models.ErrUserNotFound) {
		response.JSON(w, r, http.StatusNotFound, response.Error(response.MsgUserNotFound))
		return
	}
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	response.JSON(w, r, http.StatusOK, response.OK("User status updated successfully", Data{
		User: user.Public(),
	}))
}
