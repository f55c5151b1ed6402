// Package auth собирает HTTP API аутентификации из конфигурации:
// хранилище, кеш, публикацию событий, метрики и gRPC health-сервер.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/auth-api/internal/cache"
	"github.com/magabrotheeeer/auth-api/internal/config"
	healthserver "github.com/magabrotheeeer/auth-api/internal/grpc/server"
	"github.com/magabrotheeeer/auth-api/internal/lib/credentials"
	"github.com/magabrotheeeer/auth-api/internal/lib/jwt"
	"github.com/magabrotheeeer/auth-api/internal/lib/metrics"
	"github.com/magabrotheeeer/auth-api/internal/lib/password"
	"github.com/magabrotheeeer/auth-api/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/auth-api/internal/lib/sl"
	"github.com/magabrotheeeer/auth-api/internal/migrations"
	"github.com/magabrotheeeer/auth-api/internal/models"
	authservice "github.com/magabrotheeeer/auth-api/internal/services/auth"
	"github.com/magabrotheeeer/auth-api/internal/services/users"
	"github.com/magabrotheeeer/auth-api/internal/storage"
)

const (
	shutdownTimeout   = 15 * time.Second
	rabbitmqRetries   = 3
	rabbitmqRetryWait = 2 * time.Second
)

// App собранное приложение с HTTP-сервером и необязательными компонентами.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage

	cache     *cache.Cache
	amqpConn  *amqp.Connection
	publisher *rabbitmq.Publisher

	health     *healthserver.HealthServer
	healthAddr string
}

// New собирает приложение.
//
// Недоступная база в prod прерывает запуск. В остальных окружениях сервер
// стартует, /health показывает Disconnected, а запросы к хранилищу пытаются
// подключиться заново. Redis и RabbitMQ необязательны: ошибка подключения
// к ним только пишется в лог.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.auth.New"

	hasher, err := password.NewHasher(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db := storage.New(cfg.StorageConnectionString, cfg.ConnectTimeout, hasher)
	if cfg.AutoMigrate {
		db.OnConnect(func(_ context.Context, sqlDB *sql.DB) error {
			if err := migrations.Run(sqlDB); err != nil {
				logger.Error("failed to apply migrations", sl.Err(err))
				return err
			}
			logger.Info("migrations applied")
			return nil
		})
	}
	if err = db.Connect(ctx); err != nil {
		if cfg.Env == config.EnvProd || !errors.Is(err, models.ErrStorageUnavailable) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Warn("database is unavailable, starting without it", sl.Err(err))
	}

	app := &App{
		logger: logger,
		db:     db,
	}

	var repo cache.UserRepository = db
	if cfg.AddressRedis != "" {
		c, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			logger.Warn("redis is unavailable, user cache disabled", sl.Err(err))
		} else {
			app.cache = c
			repo = cache.NewCachedUsers(db, c, cfg.UserTTL, logger)
			logger.Info("user cache enabled", slog.String("address", cfg.AddressRedis))
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	opts := []authservice.Option{authservice.WithRecorder(m)}
	if cfg.URL != "" {
		if err := app.connectRabbitMQ(cfg.RabbitMQ); err != nil {
			logger.Warn("rabbitmq is unavailable, events disabled", sl.Err(err))
		} else {
			opts = append(opts, authservice.WithEvents(app.publisher))
			logger.Info("user events enabled", slog.String("exchange", cfg.Exchange))
		}
	}

	validator := credentials.New(credentials.NewPolicy(cfg.MinLength, cfg.Strict), cfg.ValidateEmailFormat)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Services{
		Auth:     authservice.NewAuthService(logger, repo, validator, hasher, jwtMaker, opts...),
		Users:    users.New(logger, repo),
		DB:       db,
		Metrics:  m,
		Gatherer: registry,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if cfg.AddressGRPC != "" {
		app.health = healthserver.NewHealthServer(logger, db, cfg.CheckInterval)
		app.healthAddr = cfg.AddressGRPC
	}

	return app, nil
}

func (a *App) connectRabbitMQ(cfg config.RabbitMQ) error {
	const op = "app.auth.connectRabbitMQ"

	conn, err := rabbitmq.Connect(cfg.URL, rabbitmqRetries, rabbitmqRetryWait)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	publisher, err := rabbitmq.NewPublisher(ch, cfg.Exchange)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	a.amqpConn = conn
	a.publisher = publisher
	return nil
}

// Run запускает серверы и блокируется до отмены ctx или ошибки сервера.
// При отмене выполняет плавную остановку и освобождает ресурсы.
func (a *App) Run(ctx context.Context) error {
	const op = "app.auth.Run"
	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if a.health != nil {
		lis, err := net.Listen("tcp", a.healthAddr)
		if err != nil {
			_ = a.shutdown()
			return fmt.Errorf("%s: %w", op, err)
		}
		go a.health.Watch(watchCtx)
		go func() {
			if err := a.health.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
		a.logger.Info("shutting down gracefully")
	}

	stopWatch()
	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return fmt.Errorf("%s: %w", op, runErr)
	}
	return nil
}

func (a *App) shutdown() error {
	timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(timeoutCtx)
	if a.health != nil {
		a.health.GracefulStop()
	}
	if a.publisher != nil {
		if cerr := a.publisher.Close(); cerr != nil {
			a.logger.Warn("failed to close rabbitmq channel", sl.Err(cerr))
		}
	}
	if a.amqpConn != nil {
		if cerr := a.amqpConn.Close(); cerr != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(cerr))
		}
	}
	if a.cache != nil {
		if cerr := a.cache.Close(); cerr != nil {
			a.logger.Warn("failed to close redis", sl.Err(cerr))
		}
	}
	if cerr := a.db.Close(); cerr != nil {
		a.logger.Warn("failed to close database", sl.Err(cerr))
	}
	return err
}
