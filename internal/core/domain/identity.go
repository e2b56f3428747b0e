package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the verified caller attached to every authenticated request.
type Identity struct {
	UserID    uuid.UUID
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// OwnerRef is the value stored as a wallet's owner reference.
func (i Identity) OwnerRef() string {
	return i.UserID.String()
}
