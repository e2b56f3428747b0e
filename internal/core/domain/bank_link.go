package domain

import (
	"time"

	"github.com/google/uuid"
)

// BankLink records an aggregator item exchanged for a user.
type BankLink struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	ItemID         string    `json:"item_id"`
	AccessTokenEnc string    `json:"-"` // AES-256-GCM, hex
	CreatedAt      time.Time `json:"created_at"`
}

// BankAccount is one account returned by the aggregator.
type BankAccount struct {
	AccountID string   `json:"account_id"`
	Name      string   `json:"name"`
	Mask      string   `json:"mask"`
	Type      string   `json:"type"`
	Subtype   string   `json:"subtype"`
	Available *float64 `json:"available_balance,omitempty"`
	Current   *float64 `json:"current_balance,omitempty"`
	Currency  string   `json:"currency,omitempty"`
}
