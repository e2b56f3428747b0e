package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BankServiceImpl implements ports.BankService.
type BankServiceImpl struct {
	aggregator ports.BankAggregator
	links      ports.BankLinkRepository
	encSvc     ports.EncryptionService
	log        zerolog.Logger
}

// NewBankService creates a new BankServiceImpl.
func NewBankService(
	aggregator ports.BankAggregator,
	links ports.BankLinkRepository,
	encSvc ports.EncryptionService,
	log zerolog.Logger,
) *BankServiceImpl {
	return &BankServiceImpl{
		aggregator: aggregator,
		links:      links,
		encSvc:     encSvc,
		log:        log,
	}
}

// CreateLinkToken starts the aggregator's link flow for the caller.
func (s *BankServiceImpl) CreateLinkToken(ctx context.Context, id domain.Identity) (*ports.LinkToken, error) {
	token, err := s.aggregator.CreateLinkToken(ctx, id.OwnerRef())
	if err != nil {
		return nil, apperror.ErrBankProvider(err)
	}
	return token, nil
}

// ExchangePublicToken trades a public token for an access token and stores it encrypted.
func (s *BankServiceImpl) ExchangePublicToken(ctx context.Context, id domain.Identity, publicToken string) (*domain.BankLink, error) {
	publicToken = strings.TrimSpace(publicToken)
	if publicToken == "" {
		return nil, apperror.Validation("public_token is required")
	}

	access, err := s.aggregator.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, apperror.ErrBankProvider(err)
	}

	accessEnc, err := s.encSvc.Encrypt(access.AccessToken)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("encrypt access token: %w", err))
	}

	link := &domain.BankLink{
		ID:             uuid.New(),
		UserID:         id.UserID,
		ItemID:         access.ItemID,
		AccessTokenEnc: accessEnc,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("store bank link: %w", err))
	}

	s.log.Info().Str("user_id", id.OwnerRef()).Str("item_id", link.ItemID).Msg("bank account linked")
	return link, nil
}

// ListAccounts returns the accounts of the caller's most recent link.
func (s *BankServiceImpl) ListAccounts(ctx context.Context, id domain.Identity) ([]domain.BankAccount, error) {
	link, err := s.links.GetLatestByUser(ctx, id.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get bank link: %w", err))
	}
	if link == nil {
		return nil, apperror.ErrBankLinkNotFound()
	}

	accessToken, err := s.encSvc.Decrypt(link.AccessTokenEnc)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("decrypt access token: %w", err))
	}

	accounts, err := s.aggregator.GetAccounts(ctx, accessToken)
	if err != nil {
		return nil, apperror.ErrBankProvider(err)
	}
	return accounts, nil
}
