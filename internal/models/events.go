package models

import "time"

// UserRegisteredEvent публикуется после успешной регистрации пользователя.
type UserRegisteredEvent struct {
	UserUID      string    `json:"userId"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	RegisteredAt time.Time `json:"registeredAt"`
}
