package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/healthsms/golang_services/internal/porting_service/domain"
)

const keyPrefix = "porting:portability:"

// RedisPortabilityCache stores portability answers as JSON with a TTL.
// Redis failures are logged and treated as misses.
type RedisPortabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisPortabilityCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisPortabilityCache {
	return &RedisPortabilityCache{client: client, ttl: ttl, logger: logger.With("component", "portability_cache")}
}

func (c *RedisPortabilityCache) Get(ctx context.Context, e164 string) (*domain.PortabilityResult, bool) {
	data, err := c.client.Get(ctx, keyPrefix+e164).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "Portability cache read failed", "number", e164, "error", err)
		}
		return nil, false
	}

	var result domain.PortabilityResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.WarnContext(ctx, "Discarding corrupt portability cache entry", "number", e164, "error", err)
		return nil, false
	}
	return &result, true
}

func (c *RedisPortabilityCache) Set(ctx context.Context, e164 string, result *domain.PortabilityResult) {
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to marshal portability result", "number", e164, "error", err)
		return
	}
	if err := c.client.Set(ctx, keyPrefix+e164, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "Portability cache write failed", "number", e164, "error", err)
	}
}

// NoopPortabilityCache never stores anything.
type NoopPortabilityCache struct{}

func (NoopPortabilityCache) Get(context.Context, string) (*domain.PortabilityResult, bool) {
	return nil, false
}

func (NoopPortabilityCache) Set(context.Context, string, *domain.PortabilityResult) {}

var (
	_ domain.PortabilityCache = (*RedisPortabilityCache)(nil)
	_ domain.PortabilityCache = NoopPortabilityCache{}
)
