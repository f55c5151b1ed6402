// Package credentials проверяет форму и надёжность учётных данных до любого
// обращения к хранилищу. Пакет не имеет побочных эффектов.
package credentials

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/auth-api/internal/models"
)

// specialChars набор символов, засчитываемых как специальные.
const specialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// bcryptMaxBytes bcrypt учитывает только первые 72 байта пароля.
const bcryptMaxBytes = 72

// DefaultMinLength минимальная длина пароля по умолчанию.
const DefaultMinLength = 6

// Policy описывает требования к надёжности пароля.
type Policy struct {
	MinLength      int  // Минимальная длина в символах
	RequireLower   bool // Хотя бы одна строчная латинская буква
	RequireUpper   bool // Хотя бы одна заглавная латинская буква
	RequireSpecial bool // Хотя бы один символ из specialChars
}

// NewPolicy создаёт политику. strict включает требования к составу пароля.
func NewPolicy(minLength int, strict bool) Policy {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return Policy{
		MinLength:      minLength,
		RequireLower:   strict,
		RequireUpper:   strict,
		RequireSpecial: strict,
	}
}

// Validator проверяет учётные данные по заданной политике.
type Validator struct {
	policy        Policy
	validateEmail bool
	validate      *validator.Validate
}

// New создаёт Validator. validateEmail включает проверку формата email при регистрации.
func New(policy Policy, validateEmail bool) *Validator {
	return &Validator{
		policy:        policy,
		validateEmail: validateEmail,
		validate:      validator.New(),
	}
}

// Policy возвращает текущую политику паролей.
func (v *Validator) Policy() Policy {
	return v.policy
}

// RequireFields проверяет структуру с тегами validate:"required".
// Любое нарушение превращается в models.ErrAllFieldsRequired с перечнем полей.
func (v *Validator) RequireFields(s any) error {
	const op = "credentials.RequireFields"
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%s: %w: %s", op, models.ErrAllFieldsRequired, strings.Join(fields, ", "))
}

// ValidateCredentialsShape проверяет, что email и пароль переданы.
func (v *Validator) ValidateCredentialsShape(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return models.ErrMissingCredentials
	}
	return nil
}

// IsValidEmail проверяет формат local@domain.tld.
func (v *Validator) IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || strings.ContainsAny(email, " \t\r\n") || strings.Count(email, "@") != 1 {
		return false
	}
	if v.validate.Var(email, "email") != nil {
		return false
	}
	domain := email[strings.LastIndexByte(email, '@')+1:]
	return strings.Contains(domain, ".")
}

// ValidateEmail возвращает models.ErrInvalidEmail, если проверка формата включена
// и email ей не соответствует.
func (v *Validator) ValidateEmail(email string) error {
	if !v.validateEmail {
		return nil
	}
	if !v.IsValidEmail(email) {
		return models.ErrInvalidEmail
	}
	return nil
}

// ValidatePasswordStrength проверяет пароль по политике.
// Возвращает *models.WeakPasswordError с первым нарушенным требованием.
func (v *Validator) ValidatePasswordStrength(password string) error {
	p := v.policy
	if utf8.RuneCountInString(password) < p.MinLength {
		return &models.WeakPasswordError{Requirement: fmt.Sprintf("be at least %d characters long", p.MinLength)}
	}
	if len(password) > bcryptMaxBytes {
		return &models.WeakPasswordError{Requirement: fmt.Sprintf("be at most %d bytes long", bcryptMaxBytes)}
	}
	if p.RequireLower && !containsRange(password, 'a', 'z') {
		return &models.WeakPasswordError{Requirement: "contain at least one lowercase letter"}
	}
	if p.RequireUpper && !containsRange(password, 'A', 'Z') {
		return &models.WeakPasswordError{Requirement: "contain at least one uppercase letter"}
	}
	if p.RequireSpecial && !strings.ContainsAny(password, specialChars) {
		return &models.WeakPasswordError{Requirement: "contain at least one special character"}
	}
	return nil
}

func containsRange(s string, lo, hi rune) bool {
	for _, r := range s {
		if r >= lo && r <= hi {
			return true
		}
	}
	return false
}
