package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is an immutable income or expense entry embedded in a wallet.
// Amount is always positive; the sign is implied by Type.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
}

// Signed returns the amount as it affects the balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// NewTransaction builds an entry with a fresh id and a UTC timestamp.
func NewTransaction(txType TransactionType, amount decimal.Decimal, description, category string, now time.Time) Transaction {
	return Transaction{
		ID:          uuid.New(),
		Type:        txType,
		Amount:      amount,
		Description: description,
		Category:    category,
		Date:        now.UTC(),
	}
}
