package grpc_test

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	grpcserver "github.com/narwhalmedia/catalog/internal/infrastructure/grpc"
)

func startServer(t *testing.T, srv *grpcserver.Server) healthpb.HealthClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestServer_HealthCheck(t *testing.T) {
	srv := grpcserver.NewServer(zaptest.NewLogger(t))
	client := startServer(t, srv)

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, grpcserver.ServiceName))

	srv.SetServing(true)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, grpcserver.ServiceName))
}

func TestServer_WatchReadiness(t *testing.T) {
	srv := grpcserver.NewServer(zaptest.NewLogger(t))
	client := startServer(t, srv)

	var healthy atomic.Bool
	healthy.Store(true)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.WatchReadiness(ctx, func(context.Context) error {
		if healthy.Load() {
			return nil
		}
		return errors.New("database down")
	}, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return check(t, client, grpcserver.ServiceName) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)

	healthy.Store(false)
	assert.Eventually(t, func() bool {
		return check(t, client, grpcserver.ServiceName) == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 10*time.Millisecond)
}
