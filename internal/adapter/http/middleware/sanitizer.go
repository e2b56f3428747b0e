package middleware

import (
	"net/http"

	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodyBytes bounds JSON request bodies.
const DefaultMaxBodyBytes int64 = 1 << 20

// MaxBodySize returns middleware that limits the request body size.
// A declared Content-Length over the limit is rejected up front with 413;
// otherwise the reader fails once the limit is crossed and binding reports it.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.AbortWithError(c, apperror.ErrPayloadTooLarge())
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
