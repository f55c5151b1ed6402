package auth

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация сгенерированной Swagger-спецификации.
	_ "github.com/magabrotheeeer/auth-api/docs"

	"github.com/magabrotheeeer/auth-api/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/auth-api/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/auth-api/internal/http/handlers/auth/password"
	"github.com/magabrotheeeer/auth-api/internal/http/handlers/auth/profile"
	"github.com/magabrotheeeer/auth-api/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/auth-api/internal/http/handlers/health"
	"github.com/magabrotheeeer/auth-api/internal/http/handlers/index"
	"github.com/magabrotheeeer/auth-api/internal/http/handlers/users/list"
	"github.com/magabrotheeeer/auth-api/internal/http/handlers/users/read"
	"github.com/magabrotheeeer/auth-api/internal/http/handlers/users/status"
	"github.com/magabrotheeeer/auth-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/auth-api/internal/lib/metrics"
	authservice "github.com/magabrotheeeer/auth-api/internal/services/auth"
	"github.com/magabrotheeeer/auth-api/internal/services/users"
)

// Services зависимости, которые нужны маршрутам.
type Services struct {
	Auth     *authservice.AuthService
	Users    *users.Service
	DB       health.Pinger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services) {
	// Глобальные middleware
	r.Use(
		middlewarectx.RequestID,
		middlewarectx.RequestLogger(logger),
		middleware.Recoverer,
		s.Metrics.Middleware,
	)

	requireAuth := middlewarectx.JWTMiddleware(s.Auth, logger)

	r.With(middlewarectx.OptionalAuth(s.Auth, logger)).Get("/", index.New(logger).ServeHTTP)
	r.Get("/health", health.New(logger, s.DB).ServeHTTP)

	r.Route("/auth", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Post("/logout", logout.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", profile.New(logger).ServeHTTP)
			r.Post("/password", password.New(logger, s.Auth).ServeHTTP)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", list.New(logger, s.Users).ServeHTTP)
		r.Get("/{id}", read.New(logger, s.Users).ServeHTTP)
		r.With(middlewarectx.RequireAdmin(logger)).Patch("/{id}/status", status.New(logger, s.Users).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
