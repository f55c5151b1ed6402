// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля, роль и временные метки.
// Структуры используются в бизнес‑логике, при работе с хранилищем и в HTTP‑ответах.
package models

import (
	"strings"
	"time"
)

// Role роль пользователя в системе.
type Role string

const (
	RoleUser           Role = "user"
	RoleAdmin          Role = "admin"
	RoleModerator      Role = "moderator"
	RoleQA             Role = "qa"
	RoleProjectManager Role = "project_manager"
)

// Valid сообщает, входит ли роль в список известных ролей.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator, RoleQA, RoleProjectManager:
		return true
	}
	return false
}

// User представляет зарегистрированного пользователя системы.
//
// Пароль хранится только в виде хэша. Новый пароль задаётся через SetPassword,
// а хранилище хэширует его ровно один раз при следующем сохранении.
type User struct {
	UUID         string    // Уникальный идентификатор, назначается хранилищем
	Email        string    // Электронная почта в нижнем регистре
	PasswordHash string    // bcrypt‑хэш пароля
	FirstName    string    // Имя
	LastName     string    // Фамилия
	IsActive     bool      // false блокирует вход и выдачу токенов
	Role         Role      // Роль пользователя
	IsSuperuser  bool      // Признак суперпользователя
	CreatedAt    time.Time // Время создания записи
	UpdatedAt    time.Time // Время последнего изменения

	plainPassword    string
	passwordModified bool
}

// NewUser создаёт пользователя с нормализованными полями и значениями по умолчанию:
// активный, роль user, не суперпользователь. Пароль помечается как изменённый.
func NewUser(email, password, firstName, lastName string) *User {
	u := &User{
		Email:     NormalizeEmail(email),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		IsActive:  true,
		Role:      RoleUser,
	}
	u.SetPassword(password)
	return u
}

// NormalizeEmail приводит email к виду, в котором он хранится и ищется.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword задаёт новый пароль в открытом виде до ближайшего сохранения.
func (u *User) SetPassword(password string) {
	u.plainPassword = password
	u.passwordModified = true
}

// PasswordModified сообщает, был ли пароль изменён после последнего сохранения.
func (u *User) PasswordModified() bool {
	return u.passwordModified
}

// PlainPassword возвращает ещё не захэшированный пароль.
func (u *User) PlainPassword() string {
	return u.plainPassword
}

// MarkPasswordHashed фиксирует сохранённый хэш и забывает открытый пароль.
func (u *User) MarkPasswordHashed(hash string) {
	u.PasswordHash = hash
	u.plainPassword = ""
	u.passwordModified = false
}

// CanAdminister сообщает, может ли пользователь управлять другими учётными записями.
func (u *User) CanAdminister() bool {
	return u.IsSuperuser || u.Role == RoleAdmin
}

// PublicUser санитизированная проекция пользователя для ответов API.
// Хэш пароля в неё никогда не попадает.
type PublicUser struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	IsActive    bool      `json:"isActive"`
	Role        Role      `json:"role"`
	IsSuperuser bool      `json:"isSuperuser"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Public возвращает проекцию пользователя без секретных полей.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.UUID,
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

// PublicUsers преобразует список пользователей в список проекций.
func PublicUsers(users []*User) []PublicUser {
	result := make([]PublicUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}
	return result
}
