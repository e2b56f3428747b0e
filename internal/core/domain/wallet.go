package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInsufficientBalance is returned when an expense would take the balance below zero.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrBalanceLimit is returned when an income would take the balance above MaxBalance.
var ErrBalanceLimit = errors.New("balance limit exceeded")

var accountReferencePattern = regexp.MustCompile(`^TOK_[^_]+_[0-9]{4}$`)

// Wallet is a named balance owned by one user, with its transactions embedded.
type Wallet struct {
	ID            uuid.UUID       `json:"id"`
	OwnerID       string          `json:"owner_id"`
	Name          string          `json:"name"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	AccountNumber *string         `json:"account_number,omitempty"` // TOK_<payload>_<last4>
	Transactions  []Transaction   `json:"transactions"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewWallet returns a wallet with a zero balance and no transactions.
func NewWallet(ownerID, name, currency string, accountNumber *string, now time.Time) *Wallet {
	now = now.UTC()
	return &Wallet{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Name:          name,
		Currency:      currency,
		Balance:       decimal.Zero,
		AccountNumber: accountNumber,
		Transactions:  []Transaction{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// OwnedBy reports whether the identity is the wallet's owner.
func (w *Wallet) OwnedBy(id Identity) bool {
	return w.OwnerID != "" && w.OwnerID == id.OwnerRef()
}

// CheckApply reports why posting tx would be refused: ErrInsufficientBalance
// below zero, ErrBalanceLimit above MaxBalance, nil otherwise.
func (w *Wallet) CheckApply(tx Transaction) error {
	next := w.Balance.Add(tx.Signed())
	switch {
	case next.IsNegative():
		return ErrInsufficientBalance
	case next.GreaterThan(MaxBalance):
		return ErrBalanceLimit
	}
	return nil
}

// CanApply reports whether posting tx keeps the balance within bounds.
func (w *Wallet) CanApply(tx Transaction) bool {
	return w.CheckApply(tx) == nil
}

// Apply appends tx and moves the balance, or returns the CheckApply error
// leaving the wallet untouched.
func (w *Wallet) Apply(tx Transaction) error {
	if err := w.CheckApply(tx); err != nil {
		return err
	}
	w.Balance = RoundMoney(w.Balance.Add(tx.Signed()))
	w.Transactions = append(w.Transactions, tx)
	w.UpdatedAt = tx.Date
	return nil
}

// LedgerBalance recomputes the balance from the embedded transactions.
func (w *Wallet) LedgerBalance() decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range w.Transactions {
		sum = sum.Add(tx.Signed())
	}
	return RoundMoney(sum)
}

// ValidAccountReference reports whether ref has the TOK_<payload>_<4 digits> shape.
func ValidAccountReference(ref string) bool {
	return accountReferencePattern.MatchString(ref)
}
