// Package index отдаёт описание API.
package index

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/magabrotheeeer/auth-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/auth-api/internal/http/response"
)

// Version версия HTTP API.
const Version = "2.0.0"

// Data описание API.
type Data struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Timestamp       string            `json:"timestamp"`
	Endpoints       map[string]string `json:"endpoints"`
	AuthenticatedAs string            `json:"authenticatedAs,omitempty"`
}

var endpoints = map[string]string{
	"register":       "POST /auth/register",
	"login":          "POST /auth/login",
	"profile":        "GET /auth/profile",
	"logout":         "POST /auth/logout",
	"changePassword": "POST /auth/password",
	"users":          "GET /users",
	"user":           "GET /users/{id}",
	"userStatus":     "PATCH /users/{id}/status",
	"health":         "GET /health",
	"metrics":        "GET /metrics",
	"docs":           "GET /docs/index.html",
}

// Handler отдаёт описание API. Работает за OptionalAuth и сообщает,
// от чьего имени пришёл запрос, если токен действителен.
type Handler struct {
	log *slog.Logger
	now func() time.Time
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
		now: time.Now,
	}
}

// ServeHTTP godoc
// @Summary Описание API
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response{data=Data}
// @Router / [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data := Data{
		Name:      "Auth API",
		Version:   Version,
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Endpoints: endpoints,
	}
	if user, ok := middlewarectx.UserFromContext(r.Context()); ok {
		data.AuthenticatedAs = user.Email
	}
	response.JSON(w, r, http.StatusOK, response.OK("Auth API", data))
}
