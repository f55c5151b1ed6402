// Package register реализует HTTP-обработчик регистрации пользователей.
//
// Обработчик декодирует JSON, передаёт данные сервису аутентификации и при
// успехе возвращает санитизированного пользователя вместе с токеном.
// Поля role и isSuperuser из тела запроса не принимаются.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/auth-api/internal/http/response"
	"github.com/magabrotheeeer/auth-api/internal/lib/sl"
	"github.com/magabrotheeeer/auth-api/internal/models"
	"github.com/magabrotheeeer/auth-api/internal/services/auth"
)

// Request структура входных данных для регистрации.
type Request struct {
	Email     string `json:"email" example:"a@b.com"`
	Password  string `json:"password" example:"Abcdef1!"`
	FirstName string `json:"firstName" example:"Ada"`
	LastName  string `json:"lastName" example:"Lovelace"`
}

// Data полезная нагрузка успешного ответа.
type Data struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

// Service описывает бизнес-логику регистрации.
type Service interface {
	Register(ctx context.Context, in auth.RegisterInput) (*models.User, string, error)
}

// Handler обрабатывает HTTP-запросы на регистрацию.
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
// @Summary Регистрация пользователя
// @Description Создаёт пользователя и возвращает его вместе с токеном доступа.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 201 {object} response.Response{data=Data} "Пользователь зарегистрирован"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 409 {object} response.ErrorResponse "Email уже занят"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	user, token, err := h.service.Register(r.Context(), auth.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("user registered", slog.String("user_id", user.UUID))
	response.JSON(w, r, http.StatusCreated, response.OK("User registered successfully", Data{
		User:  user.Public(),
		Token: token,
	}))
}
