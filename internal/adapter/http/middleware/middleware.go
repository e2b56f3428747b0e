package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// HeaderRequestID carries the correlation id in both directions.
	HeaderRequestID = "X-Request-ID"

	// Context keys
	CtxIdentity = "identity"

	maxRequestIDLength = 64
)

// RequestID assigns a correlation id to every request. A well-formed
// incoming X-Request-ID is reused.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if !validRequestID(id) {
			id = uuid.New().String()
		}
		c.Set(response.RequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range id {
		if !(r == '-' || r == '_' || r == '.' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}

// JWTAuth validates the bearer token and attaches the caller's identity.
// Websocket upgrades may pass the token as ?token= instead of a header.
// Revoked tokens are rejected; if the denylist is unreachable the token
// is accepted on its signature alone.
func JWTAuth(tokenSvc ports.TokenService, denylist ports.TokenDenylist, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			response.AbortWithError(c, apperror.ErrInvalidToken())
			return
		}

		claims, err := tokenSvc.Validate(tokenStr)
		if err != nil {
			response.AbortWithError(c, apperror.ErrInvalidToken())
			return
		}

		if denylist != nil && claims.TokenID != "" {
			revoked, err := denylist.IsRevoked(c.Request.Context(), claims.TokenID)
			if err != nil {
				log.Warn().Err(err).Str("user_id", claims.UserID.String()).Msg("token denylist unavailable, allowing request")
			} else if revoked {
				response.AbortWithError(c, apperror.ErrInvalidToken())
				return
			}
		}

		c.Set(CtxIdentity, domain.Identity{
			UserID:    claims.UserID,
			Email:     claims.Email,
			TokenID:   claims.TokenID,
			ExpiresAt: claims.ExpiresAt,
		})
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if authHeader == "" && websocket.IsWebSocketUpgrade(c.Request) {
		return c.Query("token")
	}
	return ""
}

// IdentityFrom returns the identity attached by JWTAuth.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, exists := c.Get(CtxIdentity)
	if !exists {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		if err := c.Errors.Last(); err != nil {
			event = event.Err(err.Err)
		}
		if id, ok := IdentityFrom(c); ok {
			event = event.Str("user_id", id.OwnerRef())
		}

		event.
			Str("request_id", c.GetString(response.RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				response.AbortWithError(c, apperror.InternalError(fmt.Errorf("panic: %v", r)))
			}
		}()
		c.Next()
	}
}
