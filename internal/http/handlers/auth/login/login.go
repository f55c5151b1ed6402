// Package login реализует HTTP-обработчик входа пользователя.
//
// Неизвестный email и неверный пароль дают одинаковый ответ 401, чтобы по
// ответу нельзя было узнать, зарегистрирован ли адрес.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/auth-api/internal/http/response"
	"github.com/magabrotheeeer/auth-api/internal/lib/sl"
	"github.com/magabrotheeeer/auth-api/internal/models"
)

// Request структура входных данных для авторизации.
type Request struct {
	Email    string `json:"email" example:"a@b.com"`
	Password string `json:"password" example:"Abcdef1!"`
}

// Data полезная нагрузка успешного ответа.
type Data struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис аутентификации
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по email и паролю. Возвращает пользователя и токен.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.Response{data=Data} "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные или учётная запись отключена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, log, models.ErrInvalidInput)
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("login success", slog.String("user_id", user.UUID))
	response.JSON(w, r, http.StatusOK, response.OK("Login successful", Data{
		User:  user.Public(),
		Token: token,
	}))
}
