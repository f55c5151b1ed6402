// Package health отдаёт состояние сервиса и подключения к базе данных.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/auth-api/internal/http/response"
	"github.com/magabrotheeeer/auth-api/internal/lib/sl"
)

// Состояния подключения к базе.
const (
	DatabaseConnected    = "Connected"
	DatabaseDisconnected = "Disconnected"
)

const pingTimeout = 2 * time.Second

// Body тело ответа health-check.
type Body struct {
	Status    string `json:"status" example:"OK"`
	Database  string `json:"database" example:"Connected"`
	Timestamp string `json:"timestamp" example:"2024-01-01T00:00:00Z"`
}

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler обрабатывает health-check.
type Handler struct {
	log *slog.Logger
	db  Pinger
	now func() time.Time
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, db Pinger) *Handler {
	return &Handler{
		log: log,
		db:  db,
		now: time.Now,
	}
}

// ServeHTTP godoc
// @Summary Проверка состояния
// @Description Всегда отвечает 200. Поле database показывает, доступна ли база данных.
// @Tags Health
// @Produce  json
// @Success 200 {object} Body
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	database := DatabaseConnected
	if err := h.db.Ping(ctx); err != nil {
		h.log.Debug("database ping failed", slog.String("op", op), sl.Err(err))
		database = DatabaseDisconnected
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, Body{
		Status:    response.StatusOK,
		Database:  database,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}
