// AngelaMos | 2026
// cache.go

package course

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

const catalogKey = "catalog:courses:v1"

// ErrCacheMiss is returned by a Cache that holds no catalog snapshot.
var ErrCacheMiss = errors.New("catalog cache miss")

type Cache interface {
	GetCatalog(ctx context.Context) ([]Course, error)
	SetCatalog(ctx context.Context, courses []Course) error
	Invalidate(ctx context.Context) error
}

type JSONStore interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// RedisCache keeps the full catalog listing as one JSON value.
type RedisCache struct {
	store JSONStore
	ttl   time.Duration
}

func NewRedisCache(store JSONStore, ttl time.Duration) *RedisCache {
	return &RedisCache{store: store, ttl: ttl}
}

func (c *RedisCache) GetCatalog(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := c.store.GetJSON(ctx, catalogKey, &courses); err != nil {
		if errors.Is(err, core.ErrCacheMiss) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("read catalog cache: %w", err)
	}
	return courses, nil
}

func (c *RedisCache) SetCatalog(ctx context.Context, courses []Course) error {
	if err := c.store.SetJSON(ctx, catalogKey, courses, c.ttl); err != nil {
		return fmt.Errorf("write catalog cache: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.store.Delete(ctx, catalogKey); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}

type noopCache struct{}

func (noopCache) GetCatalog(context.Context) ([]Course, error) { return nil, ErrCacheMiss }
func (noopCache) SetCatalog(context.Context, []Course) error   { return nil }
func (noopCache) Invalidate(context.Context) error             { return nil }

var (
	_ Cache     = (*RedisCache)(nil)
	_ JSONStore = (*core.Redis)(nil)
)
