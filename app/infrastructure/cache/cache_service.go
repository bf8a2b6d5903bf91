package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// CacheService stores JSON encoded values.
type CacheService interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Get returns ErrCacheMiss when the key is absent.
	Get(ctx context.Context, key string, dest any) error
	// GetWithFallback fills dest from cache, or from fallback which is then cached.
	GetWithFallback(ctx context.Context, key string, dest any, fallback func() (any, error), expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
	HealthCheck(ctx context.Context) error
}
