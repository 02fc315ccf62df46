package interceptors_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/narwhalmedia/catalog/internal/infrastructure/grpc/interceptors"
	"github.com/narwhalmedia/catalog/pkg/logger"
)

var info = &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

func TestUnaryLoggingInterceptor_PropagatesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	interceptor := interceptors.UnaryLoggingInterceptor(zap.New(core))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(interceptors.RequestIDMetadataKey, "req-42"))
	var seen string
	_, err := interceptor(ctx, nil, info, func(ctx context.Context, req any) (any, error) {
		seen = logger.RequestIDFromContext(ctx)
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "req-42", seen)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, "req-42", entry.ContextMap()["request_id"])
	assert.Equal(t, "OK", entry.ContextMap()["code"])
}

func TestUnaryLoggingInterceptor_LevelFollowsCode(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	interceptor := interceptors.UnaryLoggingInterceptor(zap.New(core))

	_, _ = interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.NotFound, "missing")
	})
	_, _ = interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.Internal, "boom")
	})

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
	assert.NotEmpty(t, logs.All()[0].ContextMap()["request_id"])
}

func TestUnaryRecoveryInterceptor(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	interceptor := interceptors.UnaryRecoveryInterceptor(zap.New(core))

	_, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		panic("nil map")
	})

	assert.Equal(t, codes.Internal, status.Code(err))
	assert.NotContains(t, err.Error(), "nil map")
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}
