// Package health поднимает gRPC-сервис grpc.health.v1.Health и периодически
// обновляет его статус по результату проверки хранилища.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/blogapp/internal/lib/sl"
)

// ServiceName — имя сервиса в ответах Health.Check.
const ServiceName = "blogapp.auth"

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server — gRPC-сервер с единственным сервисом health.
type Server struct {
	grpcServer *grpc.Server
	health     *grpchealth.Server
	listener   net.Listener
	logger     *slog.Logger
}

// New слушает addr и регистрирует health-сервис.
func New(addr string, logger *slog.Logger) (*Server, error) {
	const op = "grpc.health.New"

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return NewWithListener(lis, logger), nil
}

// NewWithListener создает сервер поверх готового listener.
func NewWithListener(lis net.Listener, logger *slog.Logger) *Server {
	grpcServer := grpc.NewServer()
	h := grpchealth.NewServer()
	healthpb.RegisterHealthServer(grpcServer, h)

	s := &Server{
		grpcServer: grpcServer,
		health:     h,
		listener:   lis,
		logger:     logger,
	}
	s.SetServing(false)
	return s
}

// Addr возвращает адрес, на котором слушает сервер.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// SetServing выставляет статус и для ServiceName, и для пустого имени сервиса.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Watch пингует p каждые interval до отмены ctx и обновляет статус.
func (s *Server) Watch(ctx context.Context, p Pinger, interval time.Duration) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		if err := p.Ping(pingCtx); err != nil {
			s.logger.Warn("storage health check failed", sl.Err(err))
			s.SetServing(false)
			return
		}
		s.SetServing(true)
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

// Run обслуживает запросы до отмены ctx.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("gRPC health service listening on", slog.String("address", s.Addr()))
		errCh <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}
