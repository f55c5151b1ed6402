// Package list реализует HTTP-обработчик для получения списка пользователей.
//
// Поддерживает пагинацию через query-параметры limit и offset. Пользователи
// возвращаются в порядке регистрации без хэшей паролей.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/auth-api/internal/http/response"
	"github.com/magabrotheeeer/auth-api/internal/models"
	"github.com/magabrotheeeer/auth-api/internal/services/users"
)

// MsgInvalidPagination ответ на нечисловые limit или offset.
const MsgInvalidPagination = "Invalid pagination parameters"

// Data страница пользователей.
type Data struct {
	Users  []models.PublicUser `json:"users"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// Service описывает бизнес-логику чтения списка пользователей.
type Service interface {
	List(ctx context.Context, limit, offset int) (*users.Page, error)
}

// Handler обрабатывает запросы списка пользователей.
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
// @Summary Список пользователей
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Размер страницы (по умолчанию 20, максимум 100)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} response.Response{data=Data} "Страница пользователей"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры пагинации"
// @Failure 401 {object} response.ErrorResponse "Нет токена или токен недействителен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := intParam(r, "limit")
	if err != nil {
		response.JSON(w, r, http.StatusBadRequest, response.Error(MsgInvalidPagination))
		return
	}
	offset, err := intParam(r, "offset")
	if err != nil {
		response.JSON(w, r, http.StatusBadRequest, response.Error(MsgInvalidPagination))
		return
	}

	page, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	data := Data{
		Users:  make([]models.PublicUser, 0, len(page.Users)),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	for _, u := range page.Users {
		data.Users = append(data.Users, u.Public())
	}

	log.Debug("users listed", slog.Int("count", len(data.Users)), slog.Int("total", data.Total))
	response.JSON(w, r, http.StatusOK, response.OK("Users retrieved successfully", data))
}

// intParam читает целочисленный query-параметр. Отсутствующий параметр даёт 0.
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
