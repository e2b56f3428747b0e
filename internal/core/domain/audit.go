package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionRegister          AuditAction = "REGISTER"
	AuditActionLogin             AuditAction = "LOGIN"
	AuditActionLogout            AuditAction = "LOGOUT"
	AuditActionCreateWallet      AuditAction = "CREATE_WALLET"
	AuditActionUpdateWallet      AuditAction = "UPDATE_WALLET"
	AuditActionDeleteWallet      AuditAction = "DELETE_WALLET"
	AuditActionPostTransaction   AuditAction = "POST_TRANSACTION"
	AuditActionLinkBank          AuditAction = "LINK_BANK"
	AuditActionTokenizeAccount   AuditAction = "TOKENIZE_ACCOUNT"
	AuditActionUpsertUserProfile AuditAction = "UPSERT_USER"
)

// AuditLog records that an action happened. It never carries wallet contents.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	UserID       *uuid.UUID  `json:"user_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
