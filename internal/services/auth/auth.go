// Package auth содержит бизнес-логику регистрации, входа и проверки токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/auth-api/internal/lib/credentials"
	"github.com/magabrotheeeer/auth-api/internal/lib/jwt"
	"github.com/magabrotheeeer/auth-api/internal/lib/metrics"
	"github.com/magabrotheeeer/auth-api/internal/lib/sl"
	"github.com/magabrotheeeer/auth-api/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в хранилище.
type UserRepository interface {
	// SaveUser создаёт или обновляет пользователя, хешируя изменённый пароль.
	SaveUser(ctx context.Context, u *models.User) error
	// GetUserByID возвращает пользователя по UID или models.ErrUserNotFound.
	GetUserByID(ctx context.Context, userUID string) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email вместе с хэшем пароля.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// ExistsByEmail проверяет, занят ли email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// PasswordVerifier сравнивает пароль с сохранённым хэшем.
type PasswordVerifier interface {
	Verify(plain, hash string) bool
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event models.UserRegisteredEvent) error
}

// Recorder учитывает исходы операций аутентификации.
type Recorder interface {
	AuthEvent(event, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) AuthEvent(string, string) {}

// RegisterInput данные публичной регистрации. Роль и признак суперпользователя
// сюда намеренно не входят.
type RegisterInput struct {
	Email     string `validate:"required"`
	Password  string `validate:"required"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
}

// AuthService отвечает за регистрацию, вход и проверку JWT.
type AuthService struct {
	log       *slog.Logger
	users     UserRepository
	validator *credentials.Validator
	passwords PasswordVerifier
	jwtMaker  jwt.Maker
	events    EventPublisher
	recorder  Recorder
	now       func() time.Time
}

// Option настраивает AuthService.
type Option func(*AuthService)

// WithEvents включает публикацию событий регистрации.
func WithEvents(p EventPublisher) Option {
	return func(s *AuthService) { s.events = p }
}

// WithRecorder включает учёт метрик.
func WithRecorder(r Recorder) Option {
	return func(s *AuthService) { s.recorder = r }
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(
	log *slog.Logger,
	users UserRepository,
	validator *credentials.Validator,
	passwords PasswordVerifier,
	jwtMaker jwt.Maker,
	opts ...Option,
) *AuthService {
	s := &AuthService{
		log:       log,
		users:     users,
		validator: validator,
		passwords: passwords,
		jwtMaker:  jwtMaker,
		recorder:  nopRecorder{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) record(event string, err error) {
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	s.recorder.AuthEvent(event, outcome)
}

// Register создаёт пользователя и выпускает для него токен.
//
// Порядок проверок: обязательные поля, формат email, надёжность пароля,
// занятость email. Гонка двух одновременных регистраций разрешается
// уникальным индексом хранилища и тоже даёт models.ErrUserExists.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (user *models.User, token string, err error) {
	const op = "auth.Register"
	defer func() { s.record(metrics.EventRegister, err) }()

	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err = s.validator.RequireFields(in); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err = s.validator.ValidateEmail(in.Email); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err = s.validator.ValidatePasswordStrength(in.Password); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrUserExists)
	}

	user = models.NewUser(in.Email, in.Password, in.FirstName, in.LastName)
	if err = s.users.SaveUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err = s.jwtMaker.GenerateToken(user.UUID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	s.publishRegistered(ctx, user)
	return user, token, nil
}

func (s *AuthService) publishRegistered(ctx context.Context, user *models.User) {
	if s.events == nil {
		return
	}
	registeredAt := user.CreatedAt
	if registeredAt.IsZero() {
		registeredAt = s.now().UTC()
	}
	event := models.UserRegisteredEvent{
		UserUID:      user.UUID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		RegisteredAt: registeredAt,
	}
	if err := s.events.PublishUserRegistered(ctx, event); err != nil {
		s.log.Warn("failed to publish user registered event",
			slog.String("user_id", user.UUID), sl.Err(err))
	}
}

// Login проверяет пароль пользователя и выпускает JWT.
//
// Несуществующий email и неверный пароль дают одинаковую ошибку
// models.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (user *models.User, token string, err error) {
	const op = "auth.Login"
	defer func() { s.record(metrics.EventLogin, err) }()

	if err = s.validator.ValidateCredentialsShape(email, plainPassword); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	user, err = s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrAccountDeactivated)
	}
	if !s.passwords.Verify(plainPassword, user.PasswordHash) {
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	token, err = s.jwtMaker.GenerateToken(user.UUID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// Authenticate проверяет токен и загружает пользователя, на которого он выписан.
//
// Деактивированный пользователь отклоняется даже с действующим токеном.
func (s *AuthService) Authenticate(ctx context.Context, token string) (user *models.User, err error) {
	const op = "auth.Authenticate"
	defer func() { s.record(metrics.EventAuthenticate, err) }()

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err = s.users.GetUserByID(ctx, claims.UserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%s: %w", op, models.ErrAccountDeactivated)
	}
	return user, nil
}

// ChangePassword меняет пароль после проверки текущего.
// Новый пароль проходит ту же политику, что и при регистрации, и хешируется один раз.
func (s *AuthService) ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) (err error) {
	const op = "auth.ChangePassword"
	defer func() { s.record(metrics.EventChangePassword, err) }()

	if currentPassword == "" || newPassword == "" {
		return fmt.Errorf("%s: %w", op, models.ErrAllFieldsRequired)
	}

	stored, err := s.users.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !s.passwords.Verify(currentPassword, stored.PasswordHash) {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if err = s.validator.ValidatePasswordStrength(newPassword); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	stored.SetPassword(newPassword)
	if err = s.users.SaveUser(ctx, stored); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
