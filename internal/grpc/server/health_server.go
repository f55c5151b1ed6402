// Package server реализует gRPC health-сервер сервиса аутентификации.
//
// HealthServer отдаёт стандартный протокол grpc.health.v1 для оркестраторов.
// Статус вычисляется периодической проверкой базы данных: доступна база,
// сервис SERVING, иначе NOT_SERVING.
package server

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/auth-api/internal/lib/sl"
)

// ServiceName имя сервиса в протоколе health.
const ServiceName = "auth.AuthAPI"

// DefaultCheckInterval период проверки базы по умолчанию.
const DefaultCheckInterval = 15 * time.Second

const pingTimeout = 2 * time.Second

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer реализует gRPC health-сервер.
type HealthServer struct {
	log        *slog.Logger
	db         Pinger
	interval   time.Duration
	health     *health.Server
	grpcServer *grpc.Server
}

// NewHealthServer создает сервер и регистрирует в нём health-сервис.
// До первой проверки сервис считается NOT_SERVING.
func NewHealthServer(log *slog.Logger, db Pinger, interval time.Duration) *HealthServer {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	return &HealthServer{
		log:        log.With(slog.String("component", "grpc/health")),
		db:         db,
		interval:   interval,
		health:     hs,
		grpcServer: grpcServer,
	}
}

// Check выполняет одну проверку базы и обновляет статус.
func (s *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.Ping(ctx); err != nil {
		s.log.Warn("database is unavailable", sl.Err(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Watch проверяет базу сразу и затем каждые interval до отмены ctx.
// При остановке все сервисы переводятся в NOT_SERVING.
func (s *HealthServer) Watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Serve принимает соединения на lis до вызова GracefulStop.
func (s *HealthServer) Serve(lis net.Listener) error {
	s.log.Info("gRPC health server listening", slog.String("address", lis.Addr().String()))
	return s.grpcServer.Serve(lis)
}

// GracefulStop останавливает сервер, дожидаясь активных вызовов.
func (s *HealthServer) GracefulStop() {
	s.grpcServer.GracefulStop()
}
