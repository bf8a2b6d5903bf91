package cache

import "time"

const (
	CacheVersion          = "v1"
	ModelsCacheKey        = CacheVersion + ":models:list"
	ConversationLockKey   = CacheVersion + ":conversation:lock:%s"
	ModelsCacheExpiration = 10 * time.Minute
)
