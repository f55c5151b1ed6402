package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/auth-api/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User ключ для аутентифицированного пользователя в контексте.
const User Key = "user"

// WithUser возвращает контекст с пользователем.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, User, user)
}

// UserFromContext достаёт пользователя, положенного JWTMiddleware или OptionalAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(User).(*models.User)
	return user, ok && user != nil
}
