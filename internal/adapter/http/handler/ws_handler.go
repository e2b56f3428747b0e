package handler

import (
	"wallet-ledger/internal/adapter/realtime"

	"github.com/gin-gonic/gin"
)

// BalanceFeed handles GET /api/v1/ws. The connection stays open until the
// client leaves; every posting by the caller pushes a balance message.
func BalanceFeed(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := callerIdentity(c)
		if !ok {
			return
		}
		realtime.ServeWS(c.Writer, c.Request, hub, id.OwnerRef())
	}
}
