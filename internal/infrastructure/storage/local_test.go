package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/narwhalmedia/catalog/pkg/config"
	pkgerrors "github.com/narwhalmedia/catalog/pkg/errors"
)

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return s
}

func TestLocalStorage_StoreGetDelete(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()
	key := "videos/abc/banner/0123.png"

	require.NoError(t, s.Store(ctx, key, strings.NewReader("png-bytes"), 9, "image/png"))

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, contentType, err := s.Get(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", contentType)

	require.NoError(t, s.Store(ctx, key, strings.NewReader("replaced"), 8, "image/png"))
	rc, _, err = s.Get(ctx, key)
	require.NoError(t, err)
	data, _ = io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "replaced", string(data))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))

	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = s.Get(ctx, key)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	for _, key := range []string{"../outside", "videos/../../etc/passwd", ".."} {
		err := s.Store(ctx, key, strings.NewReader("x"), 1, "text/plain")
		assert.Error(t, err, key)
	}
}

func TestLocalStorage_CanceledContext(t *testing.T) {
	s := newLocal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Store(ctx, "videos/x/video/a.mp4", strings.NewReader("data"), 4, "video/mp4")
	assert.ErrorIs(t, err, context.Canceled)

	ok, err := s.Exists(context.Background(), "videos/x/video/a.mp4")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "videos/a.mp4", objectKey("", "/videos/a.mp4"))
	assert.Equal(t, "catalog/videos/a.mp4", objectKey("catalog", "videos/a.mp4"))
}

func TestNew_UnknownDriver(t *testing.T) {
	_, _, err := New(context.Background(), config.StorageConfig{Driver: "ftp"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestNew_Local(t *testing.T) {
	s, cleanup, err := New(context.Background(), config.StorageConfig{
		Driver: DriverLocal,
		Local:  config.LocalStorageConfig{Path: t.TempDir()},
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &LocalStorage{}, s)
}
