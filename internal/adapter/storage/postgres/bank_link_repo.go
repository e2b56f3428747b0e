package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BankLinkRepo implements ports.BankLinkRepository.
type BankLinkRepo struct {
	pool Pool
}

// NewBankLinkRepo creates a new BankLinkRepo.
func NewBankLinkRepo(pool Pool) *BankLinkRepo {
	return &BankLinkRepo{pool: pool}
}

// Create stores an exchanged item. The access token must already be encrypted.
func (r *BankLinkRepo) Create(ctx context.Context, link *domain.BankLink) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO bank_links (id, user_id, item_id, access_token_enc, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		link.ID, link.UserID, link.ItemID, link.AccessTokenEnc, link.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bank link: %w", err)
	}
	return nil
}

// GetLatestByUser returns the user's most recent link, or nil if none.
func (r *BankLinkRepo) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*domain.BankLink, error) {
	var link domain.BankLink
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, item_id, access_token_enc, created_at
		 FROM bank_links WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		userID,
	).Scan(&link.ID, &link.UserID, &link.ItemID, &link.AccessTokenEnc, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bank link: %w", err)
	}
	return &link, nil
}
