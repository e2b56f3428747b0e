package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenDenylist_RevokeAndCheck(t *testing.T) {
	_, client := newTestClient(t)
	denylist := NewTokenDenylist(client)
	ctx := context.Background()

	revoked, err := denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, denylist.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = denylist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked, "other tokens stay valid")
}

func TestTokenDenylist_EntryExpires(t *testing.T) {
	s, client := newTestClient(t)
	denylist := NewTokenDenylist(client)
	ctx := context.Background()

	require.NoError(t, denylist.Revoke(ctx, "jti-1", time.Minute))
	assert.Equal(t, time.Minute, s.TTL("revoked:jti-1"))

	s.FastForward(2 * time.Minute)

	revoked, err := denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenDenylist_ConnectionError(t *testing.T) {
	s, client := newTestClient(t)
	denylist := NewTokenDenylist(client)
	s.Close()

	_, err := denylist.IsRevoked(context.Background(), "jti")
	assert.Error(t, err)
	assert.Error(t, denylist.Revoke(context.Background(), "jti", time.Minute))
}
