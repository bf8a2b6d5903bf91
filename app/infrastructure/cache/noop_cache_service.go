package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// NoOpCacheService provides a no-operation cache service for graceful degradation
type NoOpCacheService struct{}

func NewNoOpCacheService() CacheService {
	return &NoOpCacheService{}
}

func (n *NoOpCacheService) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return nil
}

func (n *NoOpCacheService) Get(ctx context.Context, key string, dest any) error {
	return fmt.Errorf("%w: %s", ErrCacheMiss, key)
}

// GetWithFallback always executes the fallback function
func (n *NoOpCacheService) GetWithFallback(ctx context.Context, key string, dest any, fallback func() (any, error), expiration time.Duration) error {
	value, err := fallback()
	if err != nil {
		return fmt.Errorf("fallback function failed: %w", err)
	}
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal fallback value: %w", err)
	}
	return json.Unmarshal(jsonValue, dest)
}

func (n *NoOpCacheService) Delete(ctx context.Context, key string) error {
	return nil
}

func (n *NoOpCacheService) Close() error {
	return nil
}

func (n *NoOpCacheService) HealthCheck(ctx context.Context) error {
	return nil
}
