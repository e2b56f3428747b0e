package dto

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
)

// --- Auth ---

// RegisterRequest is the request body for email/password sign-up.
type RegisterRequest struct {
	Email       string  `json:"email" binding:"required,max=254"`
	Password    string  `json:"password" binding:"required,min=8,max=128" sanitize:"-"`
	DisplayName *string `json:"display_name,omitempty" binding:"omitempty,max=100"`
}

// LoginRequest is the request body for email/password sign-in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required,max=128" sanitize:"-"`
}

// GoogleLoginRequest carries a Firebase ID token from the client SDK.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required,max=4096" sanitize:"-"`
}

// SessionResponse is the response body for every successful sign-in.
type SessionResponse struct {
	Token  string       `json:"token"`
	Expiry int64        `json:"expiry"` // Unix timestamp
	User   *domain.User `json:"user"`
}

// NewSessionResponse maps an issued session.
func NewSessionResponse(s *ports.Session) SessionResponse {
	return SessionResponse{
		Token:  s.Token,
		Expiry: s.Expiry.Unix(),
		User:   s.User,
	}
}

// --- Users ---

// ProfileRequest is the request body for a profile upsert.
type ProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" binding:"omitempty,max=100"`
	PhotoURL    *string `json:"photo_url,omitempty" binding:"omitempty,max=2048,safe_url"`
}

// --- Bank link ---

// ExchangeTokenRequest carries the public token returned by the link flow.
type ExchangeTokenRequest struct {
	PublicToken string `json:"public_token" binding:"required,max=512"`
}

// ExchangeTokenResponse confirms a stored bank link.
type ExchangeTokenResponse struct {
	Success bool   `json:"success"`
	ItemID  string `json:"item_id"`
}

// AccountsResponse lists the accounts of the caller's latest bank link.
type AccountsResponse struct {
	Accounts []domain.BankAccount `json:"accounts"`
}

// --- Tokenizer ---

// TokenizeAccountRequest carries a raw account number.
type TokenizeAccountRequest struct {
	AccountNumber string `json:"account_number" binding:"required,max=64"`
}

// TokenizeAccountResponse returns the opaque reference and its display form.
type TokenizeAccountResponse struct {
	Token  string `json:"token"`
	Masked string `json:"masked"`
}

// --- Wallets ---

// CreateWalletRequest is the request body for wallet creation. userId
// defaults to the caller; any balance in the body is ignored.
type CreateWalletRequest struct {
	UserID        string  `json:"userId" binding:"omitempty,max=254"`
	Name          string  `json:"name" binding:"required,max=100"`
	Currency      string  `json:"currency" binding:"required,currency_code"`
	AccountNumber *string `json:"accountNumber,omitempty" binding:"omitempty,account_token"`
}

// UpdateWalletRequest is the request body for a metadata update.
type UpdateWalletRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Currency string `json:"currency" binding:"required,currency_code"`
}

// PostTransactionRequest is the request body for a posting. Amount may be a
// JSON number or a numeric string. Type and amount are checked by the ledger
// after the wallet lookup.
type PostTransactionRequest struct {
	Type        string          `json:"type" binding:"max=20"`
	Amount      json.RawMessage `json:"amount"`
	Description string          `json:"description" binding:"max=255"`
	Category    string          `json:"category" binding:"max=100"`
}

// IdempotencyHeader binds the optional Idempotency-Key header.
type IdempotencyHeader struct {
	Key string `header:"Idempotency-Key" binding:"omitempty,max=128,safe_id"`
}

// AmountText returns the posted amount as decimal text, unwrapping a JSON
// string. A missing amount yields "".
func AmountText(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	return s
}

// TransactionResponse is one embedded ledger entry.
type TransactionResponse struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Date        time.Time   `json:"date"`
}

// WalletResponse is the wire form of a wallet.
type WalletResponse struct {
	ID            string                `json:"id"`
	UserID        string                `json:"userId"`
	Name          string                `json:"name"`
	Currency      string                `json:"currency"`
	Balance       json.Number           `json:"balance"`
	AccountNumber *string               `json:"accountNumber,omitempty"`
	Transactions  []TransactionResponse `json:"transactions"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// SummaryResponse is the canonical period summary. startDate is null for
// the all-time period.
type SummaryResponse struct {
	Period        string                `json:"period"`
	StartDate     *time.Time            `json:"startDate"`
	EndDate       time.Time             `json:"endDate"`
	TotalIncome   json.Number           `json:"totalIncome"`
	TotalExpenses json.Number           `json:"totalExpenses"`
	Net           json.Number           `json:"net"`
	Transactions  []TransactionResponse `json:"transactions"`
}

// NewWalletResponse maps a wallet, rendering money with two decimals.
func NewWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:            w.ID.String(),
		UserID:        w.OwnerID,
		Name:          w.Name,
		Currency:      w.Currency,
		Balance:       domain.MoneyJSON(w.Balance),
		AccountNumber: w.AccountNumber,
		Transactions:  newTransactionResponses(w.Transactions),
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

// NewWalletListResponse maps wallets, keeping their order.
func NewWalletListResponse(wallets []domain.Wallet) []WalletResponse {
	out := make([]WalletResponse, 0, len(wallets))
	for i := range wallets {
		out = append(out, NewWalletResponse(&wallets[i]))
	}
	return out
}

// NewSummaryResponse maps a period summary.
func NewSummaryResponse(s *domain.Summary) SummaryResponse {
	return SummaryResponse{
		Period:        string(s.Period),
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		TotalIncome:   domain.MoneyJSON(s.TotalIncome),
		TotalExpenses: domain.MoneyJSON(s.TotalExpenses),
		Net:           domain.MoneyJSON(s.Net()),
		Transactions:  newTransactionResponses(s.Transactions),
	}
}

func newTransactionResponses(txs []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, TransactionResponse{
			ID:          tx.ID.String(),
			Type:        string(tx.Type),
			Amount:      domain.MoneyJSON(tx.Amount),
			Description: tx.Description,
			Category:    tx.Category,
			Date:        tx.Date,
		})
	}
	return out
}
