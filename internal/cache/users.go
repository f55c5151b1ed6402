package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/auth-api/internal/lib/sl"
	"github.com/magabrotheeeer/auth-api/internal/models"
)

// DefaultUserTTL время жизни записи пользователя в кеше по умолчанию.
const DefaultUserTTL = 5 * time.Minute

// UserRepository хранилище пользователей, которое оборачивает кеш.
type UserRepository interface {
	SaveUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, userUID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int, error)
}

// cachedUser запись пользователя в кеше. Хэш пароля в Redis не попадает.
type cachedUser struct {
	UUID        string      `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	IsActive    bool        `json:"isActive"`
	Role        models.Role `json:"role"`
	IsSuperuser bool        `json:"isSuperuser"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func fromUser(u *models.User) cachedUser {
	return cachedUser{
		UUID:        u.UUID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsActive:    u.IsActive,
		Role:        u.Role,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c cachedUser) toUser() *models.User {
	return &models.User{
		UUID:        c.UUID,
		Email:       c.Email,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		IsActive:    c.IsActive,
		Role:        c.Role,
		IsSuperuser: c.IsSuperuser,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CachedUsers кеширует чтение пользователя по UID и сбрасывает запись при сохранении.
//
// Пользователь из кеша не содержит PasswordHash. Для проверки пароля
// нужно читать пользователя через GetUserByEmail, он всегда идёт в хранилище.
// Ошибки Redis не прерывают запрос: они логируются, а чтение уходит в хранилище.
type CachedUsers struct {
	UserRepository
	cache *Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewCachedUsers оборачивает repo кешем.
func NewCachedUsers(repo UserRepository, cache *Cache, ttl time.Duration, log *slog.Logger) *CachedUsers {
	if ttl <= 0 {
		ttl = DefaultUserTTL
	}
	return &CachedUsers{UserRepository: repo, cache: cache, ttl: ttl, log: log}
}

func userKey(userUID string) string {
	return "user:" + userUID
}

// GetUserByID читает пользователя из кеша, при промахе из хранилища.
func (c *CachedUsers) GetUserByID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "cache.GetUserByID"
	log := c.log.With(slog.String("op", op))

	var cached cachedUser
	found, err := c.cache.Get(ctx, userKey(userUID), &cached)
	if err != nil {
		log.Warn("cache read failed", sl.Err(err))
	}
	if found {
		return cached.toUser(), nil
	}

	u, err := c.UserRepository.GetUserByID(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, userKey(userUID), fromUser(u), c.ttl); err != nil {
		log.Warn("cache write failed", sl.Err(err))
	}
	return u, nil
}

// SaveUser сохраняет пользователя и сбрасывает его запись в кеше.
func (c *CachedUsers) SaveUser(ctx context.Context, u *models.User) error {
	const op = "cache.SaveUser"
	if err := c.UserRepository.SaveUser(ctx, u); err != nil {
		return err
	}
	if err := c.cache.Invalidate(ctx, userKey(u.UUID)); err != nil {
		c.log.Warn("cache invalidate failed", slog.String("op", op), sl.Err(err))
	}
	return nil
}
