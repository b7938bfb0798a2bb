package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eaglebank/ledger-service/shared/logger"
)

// KV is the subset of the Redis command set ViewCache relies on.
type KV interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Incr(ctx context.Context, key string) *goredis.IntCmd
}

// ViewCache is a JSON-backed Redis cache for read projections of type T.
// A nil *ViewCache is valid and behaves as a cache that always misses.
//
// Entries are versioned by a per-key generation counter. Readers take the
// generation before computing a projection and store it under that
// generation; Invalidate bumps the counter, so a projection computed before a
// write can be stored but is never served after it.
type ViewCache[T any] struct {
	client KV
	prefix string
	ttl    time.Duration
}

// NewViewCache stores entries under prefix with the given TTL
// (0 disables expiry). Generation counters never expire.
func NewViewCache[T any](client KV, prefix string, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, prefix: prefix, ttl: ttl}
}

func (c *ViewCache[T]) generationKey(key string) string {
	return c.prefix + "gen:" + key
}

func (c *ViewCache[T]) entryKey(key string, gen int64) string {
	return c.prefix + "entry:" + strconv.FormatInt(gen, 10) + ":" + key
}

// Generation returns the current generation of key. ok is false when the
// counter cannot be read; callers must then bypass the cache.
func (c *ViewCache[T]) Generation(ctx context.Context, key string) (int64, bool) {
	if c == nil {
		return 0, false
	}
	gen, err := c.client.Get(ctx, c.generationKey(key)).Int64()
	switch {
	case err == goredis.Nil:
		return 0, true
	case err != nil:
		logger.Warn("view cache generation read failed", zap.String("key", c.generationKey(key)), zap.Error(err))
		return 0, false
	}
	return gen, true
}

// Get returns (nil, false) on a miss or an undecodable entry.
func (c *ViewCache[T]) Get(ctx context.Context, key string, gen int64) (*T, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, c.entryKey(key, gen)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			logger.Warn("view cache read failed", zap.String("key", c.entryKey(key, gen)), zap.Error(err))
		}
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// Set stores value under generation gen. Write failures are logged, not returned.
func (c *ViewCache[T]) Set(ctx context.Context, key string, gen int64, value *T) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("view cache marshal failed", zap.String("key", c.entryKey(key, gen)), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.entryKey(key, gen), data, c.ttl).Err(); err != nil {
		logger.Warn("view cache write failed", zap.String("key", c.entryKey(key, gen)), zap.Error(err))
	}
}

// Invalidate moves key to a new generation. Entries of older generations are
// left to expire.
func (c *ViewCache[T]) Invalidate(ctx context.Context, key string) {
	if c == nil {
		return
	}
	if err := c.client.Incr(ctx, c.generationKey(key)).Err(); err != nil {
		logger.Warn("view cache invalidate failed", zap.String("key", c.generationKey(key)), zap.Error(err))
	}
}
