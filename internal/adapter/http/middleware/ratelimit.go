package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redisStore "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimitStore counts requests per key and window.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*redisStore.RateLimitResult, error)
}

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// DefaultRateLimitRules returns the rate limits per endpoint group.
func DefaultRateLimitRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		"auth_register": {Limit: 5, Window: time.Hour},
		"auth_login":    {Limit: 10, Window: time.Minute},
		"auth_google":   {Limit: 10, Window: time.Minute},
		"wallets":       {Limit: 120, Window: time.Minute},
		"transactions":  {Limit: 60, Window: time.Minute},
		"users":         {Limit: 60, Window: time.Minute},
		"plaid":         {Limit: 20, Window: time.Minute},
		"tokens":        {Limit: 30, Window: time.Minute},
	}
}

// RateLimiter creates a rate-limiting middleware for a given endpoint group.
// Store failures let the request through.
func RateLimiter(store RateLimitStore, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := extractIdentifier(c)
		key := fmt.Sprintf("%s:%s", identifier, group)

		result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request (degraded mode)")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			retryAfter := result.ResetAt - time.Now().Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.AbortWithError(c, apperror.ErrRateLimitExceeded())
			return
		}

		c.Next()
	}
}

// extractIdentifier keys authenticated callers by user id, others by IP.
func extractIdentifier(c *gin.Context) string {
	if id, ok := IdentityFrom(c); ok {
		return "user:" + id.OwnerRef()
	}
	return "ip:" + c.ClientIP()
}
