// AngelaMos | 2026
// store.go

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/instaiq-backend/internal/config"
	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

var ErrStorageDisabled = core.NewAppError(
	errors.New("storage disabled"),
	"image uploads are not configured",
	http.StatusServiceUnavailable,
	"STORAGE_DISABLED",
)

// Store persists an uploaded object and returns the public URL clients use
// to fetch it.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

func NewStore(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.StorageS3:
		return NewS3Store(ctx, cfg)
	case config.StorageGCS:
		return NewGCSStore(ctx, cfg)
	case config.StorageNone, "":
		return noneStore{}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// ObjectKey builds a collision-free key under prefix that keeps the
// original file extension.
func ObjectKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("images", strings.Trim(prefix, "/"), uuid.NewString()+ext)
}

func publicURL(base, fallback, key string) string {
	if base != "" {
		return strings.TrimSuffix(base, "/") + "/" + key
	}
	return fallback + "/" + key
}

type noneStore struct{}

func (noneStore) Put(context.Context, string, string, io.Reader) (string, error) {
	return "", ErrStorageDisabled
}

func (noneStore) Delete(context.Context, string) error {
	return nil
}
