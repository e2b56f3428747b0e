package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RateLimitStore implements fixed-window rate limiting counters backed by Redis.
type RateLimitStore struct {
	client goredis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRateLimitStore creates a new Redis-backed rate limit store.
func NewRateLimitStore(client goredis.UniversalClient) *RateLimitStore {
	return &RateLimitStore{
		client: client,
		prefix: "ratelimit:",
		now:    time.Now,
	}
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp
}

// Allow counts one request against key in the current window. The counter
// and its expiry are written in one MULTI.
func (s *RateLimitStore) Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error) {
	windowSecs := int64(window / time.Second)
	if windowSecs < 1 {
		windowSecs = 1
	}
	windowID := s.now().Unix() / windowSecs
	redisKey := fmt.Sprintf("%s%s:%d", s.prefix, key, windowID)

	var incr *goredis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, window+time.Second)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis rate limit incr: %w", err)
	}
	count := incr.Val()

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &RateLimitResult{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   (windowID + 1) * windowSecs,
	}, nil
}
