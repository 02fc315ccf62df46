// Package storage holds the blob store drivers uploads are written to.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/narwhalmedia/catalog/internal/application"
	"github.com/narwhalmedia/catalog/pkg/config"
	pkgerrors "github.com/narwhalmedia/catalog/pkg/errors"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
	DriverGCS   = "gcs"
)

// New builds the driver selected by cfg.Driver. The returned cleanup
// releases client resources.
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (application.Storage, func(), error) {
	logger = logger.With(zap.String("storage_driver", cfg.Driver))
	switch cfg.Driver {
	case DriverLocal:
		s, err := NewLocalStorage(cfg.Local.Path, logger)
		return s, func() {}, err
	case DriverS3:
		s, err := NewS3Storage(ctx, cfg.S3, logger)
		return s, func() {}, err
	case DriverGCS:
		s, err := NewGCSStorage(ctx, cfg.GCS, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				logger.Warn("Failed to close gcs client", zap.Error(err))
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver: %q", cfg.Driver)
	}
}

func notFound(key string) error {
	return pkgerrors.NotFoundf("blob %s not found", key)
}

// objectKey prefixes key for the bucket drivers.
func objectKey(prefix, key string) string {
	key = strings.TrimPrefix(key, "/")
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}
