// Package cache stores OCR text in Redis keyed by the stored object, not the
// signed URL, so repeated submissions of the same image skip the provider.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "ocr:text:"
	DefaultTTL = 24 * time.Hour
)

// RedisCache implements ocr.Cache. Redis errors degrade to cache misses.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

type Option func(*RedisCache)

func WithTTL(ttl time.Duration) Option {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *RedisCache) {
		c.logger = logger
	}
}

func NewRedis(client *redis.Client, opts ...Option) *RedisCache {
	c := &RedisCache{
		client: client,
		ttl:    DefaultTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Key derives the cache key for an object.
func Key(bucket, path string) string {
	sum := sha256.Sum256([]byte(bucket + "\x00" + path))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (c *RedisCache) Get(ctx context.Context, bucket, path string) (string, bool) {
	text, err := c.client.Get(ctx, Key(bucket, path)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.logger.WarnContext(ctx, "ocr cache read failed", "error", err)
		return "", false
	}
	return text, true
}

func (c *RedisCache) Set(ctx context.Context, bucket, path, text string) {
	if err := c.client.Set(ctx, Key(bucket, path), text, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "ocr cache write failed", "error", err)
	}
}
