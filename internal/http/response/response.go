// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Все ответы, успешные и
// ошибочные, имеют одну форму: {status, message, data?}.
package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/auth-api/internal/lib/sl"
	"github.com/magabrotheeeer/auth-api/internal/models"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status: статус запроса ("OK" или "Error").
// Поле Message: человекочитаемое сообщение.
// Поле Data: данные ответа (опционально, при успехе).
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status  string `json:"status" example:"Error"`
	Message string `json:"message" example:"Invalid email or password"`
}

const (
	// StatusOK значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Публичные сообщения об ошибках.
const (
	MsgInvalidBody         = "Invalid request body"
	MsgAllFieldsRequired   = "All fields are required"
	MsgInvalidEmail        = "Please provide a valid email"
	MsgUserExists          = "User with this email already exists"
	MsgInvalidCredentials  = "Invalid email or password"
	MsgAccountDeactivated  = "Account is deactivated"
	MsgUserNotFound        = "User not found"
	MsgAccessTokenRequired = "Access token required"
	MsgInvalidToken        = "Invalid or expired token"
	MsgForbidden           = "Insufficient permissions"
	MsgInternal            = "Internal server error"
)

// OK возвращает успешный Response с сообщением и данными.
func OK(message string, data any) Response {
	return Response{
		Status:  StatusOK,
		Message: message,
		Data:    data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status:  StatusError,
		Message: msg,
	}
}

// FromError переводит ошибку бизнес-логики в HTTP-статус и публичное сообщение.
// Неизвестные ошибки превращаются в 500 без подробностей.
func FromError(err error) (int, string) {
	var weak *models.WeakPasswordError
	switch {
	case errors.As(err, &weak):
		return http.StatusBadRequest, "Password must " + weak.Requirement
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest, MsgInvalidBody
	case errors.Is(err, models.ErrAllFieldsRequired):
		return http.StatusBadRequest, MsgAllFieldsRequired
	case errors.Is(err, models.ErrMissingCredentials):
		return http.StatusBadRequest, MsgInvalidCredentials
	case errors.Is(err, models.ErrInvalidEmail):
		return http.StatusBadRequest, MsgInvalidEmail
	case errors.Is(err, models.ErrUserExists):
		return http.StatusConflict, MsgUserExists
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, MsgInvalidCredentials
	case errors.Is(err, models.ErrAccountDeactivated):
		return http.StatusUnauthorized, MsgAccountDeactivated
	case errors.Is(err, models.ErrUserNotFound):
		return http.StatusUnauthorized, MsgUserNotFound
	case errors.Is(err, models.ErrAccessTokenRequired):
		return http.StatusUnauthorized, MsgAccessTokenRequired
	case errors.Is(err, models.ErrTokenInvalid), errors.Is(err, models.ErrTokenExpired):
		return http.StatusUnauthorized, MsgInvalidToken
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, MsgForbidden
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

// JSON отправляет resp с указанным статусом.
func JSON(w http.ResponseWriter, r *http.Request, status int, resp Response) {
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// Fail логирует ошибку и отправляет ответ по FromError.
// Ошибки сервера пишутся с уровнем Error, клиентские с уровнем Info.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, msg := FromError(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Info("request rejected", slog.Int("status", status), sl.Err(err))
	}
	JSON(w, r, status, Error(msg))
}
