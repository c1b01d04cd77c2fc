package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	CatalogCachePrefix = "catalog:v:"
	CacheVersionKey    = "catalog:version"
	DefaultCacheTTL    = 5 * time.Minute
)

// CacheManager caches the public catalog payload in Redis with versioned
// keys; admin mutations bump the version instead of deleting entries.
type CacheManager struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCacheManager(redisClient *redis.Client, logger *zap.Logger) *CacheManager {
	return &CacheManager{redis: redisClient, ttl: DefaultCacheTTL, logger: logger}
}

// GetCatalog returns the cached catalog payload, if any.
func (cm *CacheManager) GetCatalog(ctx context.Context) (map[string]interface{}, bool) {
	if cm.redis == nil {
		return nil, false
	}
	cached, err := cm.redis.Get(ctx, cm.catalogKey(ctx)).Result()
	if err != nil {
		return nil, false
	}
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(cached), &payload); err != nil {
		cm.logger.Warn("Failed to unmarshal cached catalog", zap.Error(err))
		return nil, false
	}
	return payload, true
}

// SetCatalogAsync caches the catalog payload without blocking the request.
func (cm *CacheManager) SetCatalogAsync(payload map[string]interface{}) {
	if cm.redis == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(payload)
		if err != nil {
			cm.logger.Warn("Failed to marshal catalog for cache", zap.Error(err))
			return
		}
		if err := cm.redis.Set(ctx, cm.catalogKey(ctx), data, cm.ttl).Err(); err != nil {
			cm.logger.Warn("Failed to cache catalog", zap.Error(err))
		}
	}()
}

// Invalidate bumps the cache version after an admin mutation.
func (cm *CacheManager) Invalidate(ctx context.Context) {
	if cm.redis == nil {
		return
	}
	if err := cm.redis.Incr(ctx, CacheVersionKey).Err(); err != nil {
		cm.logger.Warn("Failed to bump catalog cache version", zap.Error(err))
	}
}

func (cm *CacheManager) catalogKey(ctx context.Context) string {
	version, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
	if err != nil {
		version = 0
	}
	return fmt.Sprintf("%s%d", CatalogCachePrefix, version)
}
