package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/narwhalmedia/catalog/pkg/config"
)

// GCSStorage keeps blobs in a Google Cloud Storage bucket.
type GCSStorage struct {
	client *storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewGCSStorage uses application default credentials unless a credentials
// file is configured. A custom endpoint such as fake-gcs-server disables
// authentication.
func NewGCSStorage(ctx context.Context, cfg config.GCSStorageConfig, logger *zap.Logger) (*GCSStorage, error) {
	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	} else if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSStorage{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, logger: logger}, nil
}

func (s *GCSStorage) object(key string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(objectKey(s.prefix, key))
}

// Store uploads r as key. A failed copy cancels the writer so the partial
// object is discarded instead of replacing what key held before.
func (s *GCSStorage) Store(ctx context.Context, key string, r io.Reader, _ int64, mimeType string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.object(key).NewWriter(ctx)
	w.ContentType = mimeType
	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return fmt.Errorf("write gcs object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize gcs object: %w", err)
	}
	s.logger.Debug("Stored blob", zap.String("bucket", s.bucket), zap.String("key", key))
	return nil
}

func (s *GCSStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	r, err := s.object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, "", notFound(key)
		}
		return nil, "", fmt.Errorf("read gcs object: %w", err)
	}
	return r, r.Attrs.ContentType, nil
}

func (s *GCSStorage) Delete(ctx context.Context, key string) error {
	err := s.object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete gcs object: %w", err)
	}
	return nil
}

func (s *GCSStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.object(key).Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat gcs object: %w", err)
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}
