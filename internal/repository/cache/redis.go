package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/municipal-boundary-service/internal/config"
	"github.com/municipal-boundary-service/internal/domain"
)

const redisKeyPrefix = "resolve:"

// RedisCache is a result cache shared across instances. Capacity is left
// to Redis' own maxmemory policy; the per-source TTL is set on write and
// expiry is enforced server-side instead of lazily.
type RedisCache struct {
	client    *redis.Client
	localTTL  time.Duration
	remoteTTL time.Duration
	logger    *zap.Logger
}

func NewRedisCache(redisCfg *config.RedisConfig, cacheCfg *config.CacheConfig, logger *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisCfg.Host, redisCfg.Port),
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis connected",
		zap.String("host", redisCfg.Host),
		zap.Int("port", redisCfg.Port),
	)

	return &RedisCache{
		client:    client,
		localTTL:  cacheCfg.LocalTTL,
		remoteTTL: cacheCfg.RemoteTTL,
		logger:    logger,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, p domain.Point) (*domain.ResolvedLocation, error) {
	key := redisKeyPrefix + QuantizeKey(p)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		c.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	var loc domain.ResolvedLocation
	if err := json.Unmarshal(data, &loc); err != nil {
		c.logger.Error("Failed to unmarshal cached resolution", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("unmarshal resolution: %w", err)
	}

	c.logger.Debug("Cache hit", zap.String("key", key))
	return &loc, nil
}

func (c *RedisCache) Put(ctx context.Context, p domain.Point, loc domain.ResolvedLocation) error {
	key := redisKeyPrefix + QuantizeKey(p)

	data, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("marshal resolution: %w", err)
	}

	ttl := c.localTTL
	if loc.Source == domain.SourceRemote {
		ttl = c.remoteTTL
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	c.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (c *RedisCache) Len(ctx context.Context) (int, error) {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, redisKeyPrefix+"*", 1000).Result()
		if err != nil {
			return 0, fmt.Errorf("cache scan error: %w", err)
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

func (c *RedisCache) Close() error {
	c.logger.Info("Closing Redis connection")
	return c.client.Close()
}

// Health pings the server, used by the health endpoint when the redis
// backend is selected.
func (c *RedisCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
