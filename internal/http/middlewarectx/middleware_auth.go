// Package middlewarectx содержит HTTP middleware сервиса.
//
// JWTMiddleware проверяет bearer-токен в заголовке Authorization, загружает
// пользователя, на которого он выписан, и кладёт его в контекст запроса.
// OptionalAuth делает то же самое, но никогда не прерывает запрос.
// Остальные middleware отвечают за проверку роли, идентификатор запроса
// и журналирование.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/auth-api/internal/http/response"
	"github.com/magabrotheeeer/auth-api/internal/lib/sl"
	"github.com/magabrotheeeer/auth-api/internal/models"
)

// Authenticator проверяет токен и возвращает активного пользователя.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// BearerToken извлекает токен из значения заголовка Authorization.
// Заголовок должен состоять ровно из двух частей через пробел, первая из
// которых буквально "Bearer".
func BearerToken(header string) (string, error) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", models.ErrAccessTokenRequired
	}
	return parts[1], nil
}

// JWTMiddleware возвращает HTTP middleware, который требует действующий токен.
//
// Отсутствующий или некорректный заголовок даёт 401 "Access token required",
// недействительный или просроченный токен 401 "Invalid or expired token".
// Удалённый или деактивированный пользователь также отклоняется с 401.
func JWTMiddleware(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token, err := BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				response.Fail(w, r, log, err)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				response.Fail(w, r, log, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// OptionalAuth возвращает middleware, который пытается аутентифицировать
// запрос, но при любой ошибке просто продолжает его без пользователя.
func OptionalAuth(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				log.Debug("optional auth skipped",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin пропускает только администраторов и суперпользователей.
// Должен стоять после JWTMiddleware.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				response.Fail(w, r, log, models.ErrAccessTokenRequired)
				return
			}
			if !user.CanAdminister() {
				response.Fail(w, r, log, models.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
