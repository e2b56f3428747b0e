package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Amounts cross the driver boundary as text so no float conversion happens.
const walletColumns = `id, owner_id, name, currency, balance::text, account_number, transactions, created_at, updated_at`

// WalletRepo implements ports.WalletRepository. Each wallet is one row with
// its transactions embedded as a JSONB array.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new wallet.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	txJSON, err := marshalTransactions(w.Transactions)
	if err != nil {
		return err
	}

	query := `INSERT INTO wallets (id, owner_id, name, currency, balance, account_number, transactions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7::jsonb, $8, $9)`

	_, err = r.pool.Exec(ctx, query,
		w.ID, w.OwnerID, w.Name, w.Currency, w.Balance.StringFixed(domain.MoneyPlaces),
		w.AccountNumber, txJSON, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID fetches a wallet with its transactions.
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by id: %w", err)
	}
	return w, nil
}

// ListByOwner returns an owner's wallets, oldest first.
func (r *WalletRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE owner_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	wallets := []domain.Wallet{}
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		wallets = append(wallets, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallets: %w", err)
	}
	return wallets, nil
}

// UpdateMetadata changes name and currency, leaving balance and transactions alone.
func (r *WalletRepo) UpdateMetadata(ctx context.Context, id uuid.UUID, name, currency string) (*domain.Wallet, error) {
	query := `UPDATE wallets SET name = $2, currency = $3, updated_at = now()
		WHERE id = $1 RETURNING ` + walletColumns

	w, err := scanWallet(r.pool.QueryRow(ctx, query, id, name, currency))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update wallet: %w", err)
	}
	return w, nil
}

// Delete removes the wallet row and with it every embedded transaction.
func (r *WalletRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wallets WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete wallet: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// AppendTransaction moves the balance and appends tx in one conditional
// UPDATE. The row only changes if the new balance stays between zero and
// domain.MaxBalance, so concurrent postings serialize on the row lock and can
// never overdraw or overflow the column.
func (r *WalletRepo) AppendTransaction(ctx context.Context, id uuid.UUID, tx domain.Transaction) (*domain.Wallet, error) {
	txJSON, err := marshalTransactions([]domain.Transaction{tx})
	if err != nil {
		return nil, err
	}

	query := `UPDATE wallets
		SET balance = balance + $2::numeric,
			transactions = transactions || $3::jsonb,
			updated_at = $4
		WHERE id = $1 AND balance + $2::numeric >= 0 AND balance + $2::numeric <= $5::numeric
		RETURNING ` + walletColumns

	w, err := scanWallet(r.pool.QueryRow(ctx, query,
		id, tx.Signed().StringFixed(domain.MoneyPlaces), txJSON, tx.Date,
		domain.MaxBalance.StringFixed(domain.MoneyPlaces),
	))
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("append transaction: %w", err)
	}

	// No row updated: either the wallet is gone or a bound check failed.
	// An income can only break the ceiling, an expense only the floor.
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}
	if tx.Signed().IsPositive() {
		return nil, domain.ErrBalanceLimit
	}
	return nil, domain.ErrInsufficientBalance
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		w       domain.Wallet
		balance string
		txJSON  []byte
	)
	if err := row.Scan(
		&w.ID, &w.OwnerID, &w.Name, &w.Currency, &balance,
		&w.AccountNumber, &txJSON, &w.CreatedAt, &w.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b, err := decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("parse balance %q: %w", balance, err)
	}
	w.Balance = b

	w.Transactions = []domain.Transaction{}
	if len(txJSON) > 0 {
		if err := json.Unmarshal(txJSON, &w.Transactions); err != nil {
			return nil, fmt.Errorf("decode transactions: %w", err)
		}
	}
	return &w, nil
}

func marshalTransactions(txs []domain.Transaction) ([]byte, error) {
	if txs == nil {
		txs = []domain.Transaction{}
	}
	b, err := json.Marshal(txs)
	if err != nil {
		return nil, fmt.Errorf("encode transactions: %w", err)
	}
	return b, nil
}
