// Package users содержит операции чтения и администрирования учётных записей.
package users

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/auth-api/internal/models"
)

// Границы пагинации.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	SaveUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, userUID string) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int, error)
}

// Page страница списка пользователей.
type Page struct {
	Users  []*models.User
	Total  int
	Limit  int
	Offset int
}

// Service реализует операции над пользователями.
type Service struct {
	log   *slog.Logger
	users UserRepository
}

// New создаёт Service.
func New(log *slog.Logger, users UserRepository) *Service {
	return &Service{log: log, users: users}
}

// NormalizePage приводит limit и offset к допустимым значениям.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// List возвращает страницу пользователей.
func (s *Service) List(ctx context.Context, limit, offset int) (*Page, error) {
	const op = "users.List"
	limit, offset = NormalizePage(limit, offset)

	list, total, err := s.users.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Page{Users: list, Total: total, Limit: limit, Offset: offset}, nil
}

// Get возвращает пользователя по UID.
func (s *Service) Get(ctx context.Context, userUID string) (*models.User, error) {
	const op = "users.Get"
	u, err := s.users.GetUserByID(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// SetActive включает или отключает учётную запись. Доступно администратору
// и суперпользователю. Пароль при этом не перехешируется.
func (s *Service) SetActive(ctx context.Context, actor *models.User, userUID string, active bool) (*models.User, error) {
	const op = "users.SetActive"
	if actor == nil || !actor.CanAdminister() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	u, err := s.users.GetUserByID(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.IsActive == active {
		return u, nil
	}

	u.IsActive = active
	if err := s.users.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user status changed",
		slog.String("op", op),
		slog.String("actor_id", actor.UUID),
		slog.String("user_id", u.UUID),
		slog.Bool("active", active),
	)
	return u, nil
}
