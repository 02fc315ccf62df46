package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/narwhalmedia/catalog/internal/infrastructure/grpc/interceptors"
)

// ServiceName is the health service name probes ask about. The empty
// name reports the server as a whole.
const ServiceName = "catalog.admin"

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

// Server exposes the standard health service and reflection.
type Server struct {
	server *grpc.Server
	health *health.Server
	logger *zap.Logger
}

// NewServer builds the server. extra interceptors run after logging and
// recovery, in order.
func NewServer(logger *zap.Logger, extra ...grpc.UnaryServerInterceptor) *Server {
	logger = logger.Named("grpc")
	unary := append([]grpc.UnaryServerInterceptor{
		interceptors.UnaryLoggingInterceptor(logger),
		interceptors.UnaryRecoveryInterceptor(logger),
	}, extra...)

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(unary...),
		grpc.ChainStreamInterceptor(
			interceptors.StreamLoggingInterceptor(logger),
			interceptors.StreamRecoveryInterceptor(logger),
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Server{server: srv, health: hs, logger: logger}
}

// GRPCServer returns the underlying server.
func (s *Server) GRPCServer() *grpc.Server {
	return s.server
}

// SetServing flips the overall and catalog health status.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// WatchReadiness runs ping every interval and mirrors the result into the
// health status until ctx ends.
func (s *Server) WatchReadiness(ctx context.Context, ping Pinger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	serving := false
	for {
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		err := ping(pingCtx)
		cancel()

		if ok := err == nil; ok != serving {
			serving = ok
			s.SetServing(ok)
			if err != nil {
				s.logger.Warn("dependency unavailable", zap.Error(err))
			} else {
				s.logger.Info("dependencies ready")
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis until ctx is canceled, then drains.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
		errCh <- s.server.Serve(lis)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.health.Shutdown()
		s.server.GracefulStop()
		return nil
	}
}
