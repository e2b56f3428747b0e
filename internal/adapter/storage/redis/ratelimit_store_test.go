package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitStore_Allow(t *testing.T) {
	mr, client := newTestClient(t)

	store := NewRateLimitStore(client)
	fixed := time.Unix(1_700_000_030, 0)
	store.now = func() time.Time { return fixed }
	ctx := context.Background()

	t.Run("allows requests within limit", func(t *testing.T) {
		for i := int64(1); i <= 3; i++ {
			result, err := store.Allow(ctx, "user1:wallets", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, result.Allowed, "request %d should be allowed", i)
			assert.Equal(t, int64(3), result.Limit)
			assert.Equal(t, 3-i, result.Remaining)
		}
	})

	t.Run("blocks requests over limit", func(t *testing.T) {
		result, err := store.Allow(ctx, "user1:wallets", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, int64(0), result.Remaining)
	})

	t.Run("different keys are independent", func(t *testing.T) {
		result, err := store.Allow(ctx, "user2:wallets", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, int64(4), result.Remaining)
	})

	t.Run("counter expires with the window", func(t *testing.T) {
		key := "user3:auth"
		_, err := store.Allow(ctx, key, 1, time.Minute)
		require.NoError(t, err)

		result, err := store.Allow(ctx, key, 1, time.Minute)
		require.NoError(t, err)
		assert.False(t, result.Allowed)

		mr.FastForward(62 * time.Second)

		result, err = store.Allow(ctx, key, 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	})

	t.Run("reset is the end of the window", func(t *testing.T) {
		result, err := store.Allow(ctx, "user4:wallets", 10, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1_700_000_040), result.ResetAt)
	})
}

func TestRateLimitStore_ConnectionError(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewRateLimitStore(client)
	mr.Close()

	_, err := store.Allow(context.Background(), "k", 1, time.Minute)
	assert.Error(t, err)
}
