package models

import "errors"

// Ошибки уровня бизнес-логики. HTTP-слой переводит их в статусы и сообщения
// в одном месте (response.FromError).
var (
	// Ошибки входных данных
	ErrInvalidInput       = errors.New("invalid request body")
	ErrAllFieldsRequired  = errors.New("all fields are required")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password is too weak")

	// Ошибки пользователей и аутентификации
	ErrUserExists          = errors.New("user with this email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountDeactivated  = errors.New("account is deactivated")
	ErrAccessTokenRequired = errors.New("access token required")
	ErrForbidden           = errors.New("forbidden")

	// Ошибки токенов
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")

	// Внутренние ошибки
	ErrHashingFailed      = errors.New("password hashing failed")
	ErrStorageUnavailable = errors.New("storage is not connected")
)

// WeakPasswordError описывает конкретное нарушенное требование политики паролей.
// errors.Is(err, ErrWeakPassword) для неё возвращает true.
type WeakPasswordError struct {
	Requirement string // например "be at least 6 characters long"
}

func (e *WeakPasswordError) Error() string {
	return "password is too weak: must " + e.Requirement
}

// Is позволяет сравнивать ошибку с ErrWeakPassword.
func (e *WeakPasswordError) Is(target error) bool {
	return target == ErrWeakPassword
}
