package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxAuditUserID   = "audit_user_id"
	ctxAuditResource = "audit_resource_id"
)

// SetAuditSubject records the user and resource of a request that runs
// before an identity exists (sign-up, sign-in) or creates a new resource.
func SetAuditSubject(c *gin.Context, userID uuid.UUID, resourceID string) {
	if userID != uuid.Nil {
		c.Set(ctxAuditUserID, userID)
	}
	if resourceID != "" {
		c.Set(ctxAuditResource, resourceID)
	}
}

// AuditLog creates an audit middleware that logs successful write operations.
// Actions are resolved from the matched route pattern. Request bodies and
// wallet contents are never recorded.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		var userID *uuid.UUID
		if id, ok := IdentityFrom(c); ok {
			uid := id.UserID
			userID = &uid
		} else if v, exists := c.Get(ctxAuditUserID); exists {
			if uid, ok := v.(uuid.UUID); ok {
				userID = &uid
			}
		}

		resourceID := c.Param("id")
		if v := c.GetString(ctxAuditResource); v != "" {
			resourceID = v
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			UserID:       userID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   resourceID,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now().UTC(),
		})
	}
}

func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	switch {
	case route == "/api/v1/auth/register" && method == http.MethodPost:
		return domain.AuditActionRegister, "user"
	case (route == "/api/v1/auth/login" || route == "/api/v1/auth/google") && method == http.MethodPost:
		return domain.AuditActionLogin, "session"
	case route == "/api/v1/users/logout" && method == http.MethodPost:
		return domain.AuditActionLogout, "session"
	case route == "/api/v1/users" && method == http.MethodPost:
		return domain.AuditActionUpsertUserProfile, "user"
	case route == "/api/v1/wallets" && method == http.MethodPost:
		return domain.AuditActionCreateWallet, "wallet"
	case route == "/api/v1/wallets/:id" && method == http.MethodPut:
		return domain.AuditActionUpdateWallet, "wallet"
	case route == "/api/v1/wallets/:id" && method == http.MethodDelete:
		return domain.AuditActionDeleteWallet, "wallet"
	case route == "/api/v1/wallets/:id/transactions" && method == http.MethodPost:
		return domain.AuditActionPostTransaction, "wallet"
	case route == "/api/v1/plaid/exchange_token" && method == http.MethodPost:
		return domain.AuditActionLinkBank, "bank_link"
	case route == "/api/v1/tokens/account" && method == http.MethodPost:
		return domain.AuditActionTokenizeAccount, "account_token"
	}
	return "", ""
}
