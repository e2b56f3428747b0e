package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// TokenDenylist implements ports.TokenDenylist. A revoked token id is kept
// until the token would have expired anyway.
type TokenDenylist struct {
	client goredis.UniversalClient
	prefix string
}

// NewTokenDenylist creates a new Redis-backed token denylist.
func NewTokenDenylist(client goredis.UniversalClient) *TokenDenylist {
	return &TokenDenylist{
		client: client,
		prefix: "revoked:",
	}
}

// Revoke marks tokenID as revoked for ttl.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := d.client.Set(ctx, d.prefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked and not yet expired.
func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis check revoked token: %w", err)
	}
	return n > 0, nil
}
