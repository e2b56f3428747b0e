package ports

import (
	"context"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// WalletRepository defines persistence operations for wallets and their
// embedded transactions. Lookups return (nil, nil) when the wallet does not exist.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	// ListByOwner returns wallets ordered by creation time, then id.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Wallet, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, name, currency string) (*domain.Wallet, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// AppendTransaction applies tx and moves the balance in one conditional write.
	// It returns domain.ErrInsufficientBalance when the write would leave a
	// negative balance, and (nil, nil) when the wallet does not exist.
	AppendTransaction(ctx context.Context, id uuid.UUID, tx domain.Transaction) (*domain.Wallet, error)
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Upsert inserts the user or updates the profile fields of the row with
	// the same email, returning the stored row.
	Upsert(ctx context.Context, user *domain.User) (*domain.User, error)
}

// BankLinkRepository stores exchanged aggregator items.
type BankLinkRepository interface {
	Create(ctx context.Context, link *domain.BankLink) error
	GetLatestByUser(ctx context.Context, userID uuid.UUID) (*domain.BankLink, error)
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}
