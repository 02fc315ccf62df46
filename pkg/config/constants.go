package config

import "time"

const (
	DefaultServiceName = "catalog"

	// Server ports.
	DefaultHTTPPort = 3000
	DefaultGRPCPort = 9090

	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultReadTimeout       = 30 * time.Second
	DefaultWriteTimeout      = 5 * time.Minute
	DefaultUploadTimeout     = time.Hour
	DefaultShutdownTimeout   = 30 * time.Second

	// Database defaults.
	DefaultPostgresPort       = 5432
	DefaultMaxOpenConns       = 25
	DefaultMaxIdleConns       = 5
	DefaultSlowQueryThreshold = 200 * time.Millisecond

	// Broker defaults.
	DefaultMaxRetries = 3
	DefaultPrefetch   = 10

	// Upload limits.
	DefaultImageMaxBytes   int64 = 2 << 20
	DefaultTrailerMaxBytes int64 = 1 << 30
	DefaultVideoMaxBytes   int64 = 1 << 30
)
