package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"menlo.ai/chat-relay/app/utils/logger"
	"menlo.ai/chat-relay/config/environment_variables"
)

// NewRedisClient returns nil unless CACHE_TYPE is "redis".
func NewRedisClient() *redis.Client {
	env := environment_variables.EnvironmentVariables
	if strings.ToLower(env.CACHE_TYPE) != "redis" {
		return nil
	}
	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.GetLogger().Errorf("Failed to parse Redis URL: %v", err)
		opts = &redis.Options{
			Addr: "localhost:6379",
		}
	}
	if env.REDIS_PASSWORD != "" {
		opts.Password = env.REDIS_PASSWORD
	}
	if env.REDIS_DB != "" {
		if db, err := strconv.Atoi(env.REDIS_DB); err == nil {
			opts.DB = db
		}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().Errorf("Failed to connect to Redis: %v", err)
	} else {
		logger.GetLogger().Info("Successfully connected to Redis")
	}
	return client
}

// NewCacheService creates a cache service based on configuration
func NewCacheService(client *redis.Client) CacheService {
	if client == nil {
		return NewNoOpCacheService()
	}
	return NewRedisCacheService(client)
}
