// Package cache provides a Redis-backed JSON cache used to memoise remote
// ChEMBL responses.  The cache is strictly an accelerator: every method
// degrades to a miss on backend trouble and callers must always be able to
// recompute the value.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/ChemLens-Insight/internal/config"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemLens-Insight/pkg/errors"
)

// ErrMiss is reported by Get when the key is absent.
var ErrMiss = errors.New(errors.ErrCodeNotFound, "cache miss")

// Cache is a namespaced JSON key/value store on Redis.
type Cache struct {
	client     *redis.Client
	keyPrefix  string
	defaultTTL time.Duration
	group      singleflight.Group
	logger     logging.Logger
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, cfg config.RedisConfig, logger logging.Logger) (*Cache, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to connect to redis")
	}

	return &Cache{
		client:     client,
		keyPrefix:  cfg.KeyPrefix,
		defaultTTL: cfg.DefaultTTL,
		logger:     logger.Named("cache"),
	}, nil
}

func (c *Cache) key(k string) string { return c.keyPrefix + k }

// Get unmarshals the value stored under key into dest.  Absent keys return
// ErrMiss; backend or decode failures are logged and also surface as ErrMiss
// so that callers fall through to recomputation.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return ErrMiss
	}
	if err != nil {
		c.logger.Warn("redis get failed", logging.String("key", key), logging.Err(err))
		return ErrMiss
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("cached value undecodable, treating as miss",
			logging.String("key", key), logging.Err(err))
		return ErrMiss
	}
	return nil
}

// Set stores value under key as JSON.  A ttl of 0 uses the configured
// default.  Failures are logged, never returned: a cold cache is acceptable.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("value not serialisable, skipping cache",
			logging.String("key", key), logging.Err(err))
		return
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, c.key(key), raw, ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", logging.String("key", key), logging.Err(err))
	}
}

// GetOrSet returns the cached value for key, computing and caching it on a
// miss.  Concurrent misses for the same key are collapsed into a single
// compute call.  dest must be a pointer; it receives the value either way.
func (c *Cache) GetOrSet(ctx context.Context, key string, ttl time.Duration, dest any,
	compute func(context.Context) (any, error)) error {

	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}

	raw, err, _ := c.group.Do(key, func() (any, error) {
		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(ctx, key, value, ttl)
		return json.Marshal(value)
	})
	if err != nil {
		return err
	}

	// Round-trip through JSON so every singleflight waiter fills its own
	// dest independently of the computed value's concrete type.
	if err := json.Unmarshal(raw.([]byte), dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode computed value")
	}
	return nil
}

// Delete removes key.  Best effort.
func (c *Cache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		c.logger.Warn("redis del failed", logging.String("key", key), logging.Err(err))
	}
}

// Close releases the Redis connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}
