package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// IdempotencyCache implements ports.IdempotencyCache. Keys are namespaced
// under "idempotency:"; callers scope them by user and wallet. In-flight claims
// live under "idempotency:claim:".
type IdempotencyCache struct {
	client      goredis.UniversalClient
	prefix      string
	claimPrefix string
}

// NewIdempotencyCache creates a new Redis-backed idempotency cache.
func NewIdempotencyCache(client goredis.UniversalClient) *IdempotencyCache {
	return &IdempotencyCache{
		client:      client,
		prefix:      "idempotency:",
		claimPrefix: "idempotency:claim:",
	}
}

// Get returns the cached response for key, or nil if there is none.
func (c *IdempotencyCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis idempotency get: %w", err)
	}
	return val, nil
}

// Set stores value under key for ttl, replacing any previous value.
func (c *IdempotencyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis idempotency set: %w", err)
	}
	return nil
}

// Claim atomically marks key as in flight with SET NX. It returns true if the
// caller now holds the claim, false if another request already does.
func (c *IdempotencyCache) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := c.client.SetArgs(ctx, c.claimPrefix+key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis idempotency claim: %w", err)
	}
	return result == "OK", nil
}

// Release drops the claim on key so the request can be retried.
func (c *IdempotencyCache) Release(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.claimPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis idempotency release: %w", err)
	}
	return nil
}
