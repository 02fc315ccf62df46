package application

import (
	"context"
	"io"
)

// Storage is the blob store uploads are written to.
type Storage interface {
	Store(ctx context.Context, key string, r io.Reader, size int64, mimeType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
