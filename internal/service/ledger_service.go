package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	idempotencyTTL      = 24 * time.Hour
	idempotencyClaimTTL = 30 * time.Second
	maxCurrencyLength   = 10
)

// LedgerServiceImpl implements ports.LedgerService.
type LedgerServiceImpl struct {
	wallets    ports.WalletRepository
	idempCache ports.IdempotencyCache // nil = Idempotency-Key ignored
	publisher  ports.BalancePublisher // nil = no live updates
	log        zerolog.Logger
	now        func() time.Time
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	wallets ports.WalletRepository,
	idempCache ports.IdempotencyCache,
	publisher ports.BalancePublisher,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		wallets:    wallets,
		idempCache: idempCache,
		publisher:  publisher,
		log:        log,
		now:        time.Now,
	}
}

// CreateWallet stores a new wallet for the caller. The balance always starts at zero.
func (s *LedgerServiceImpl) CreateWallet(ctx context.Context, id domain.Identity, req ports.CreateWalletRequest) (*domain.Wallet, error) {
	owner := strings.TrimSpace(req.OwnerID)
	if owner == "" {
		owner = id.OwnerRef()
	}
	if !s.isCaller(id, owner) {
		return nil, apperror.ErrForbidden()
	}

	name, currency, err := validateMetadata(req.Name, req.Currency)
	if err != nil {
		return nil, err
	}

	var account *string
	if req.AccountNumber != nil {
		if ref := strings.TrimSpace(*req.AccountNumber); ref != "" {
			if !domain.ValidAccountReference(ref) {
				return nil, apperror.ErrInvalidAccountReference()
			}
			account = &ref
		}
	}

	wallet := domain.NewWallet(id.OwnerRef(), name, currency, account, s.now())
	if err := s.wallets.Create(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("user_id", wallet.OwnerID).
		Str("currency", wallet.Currency).
		Msg("wallet created")

	return wallet, nil
}

// ListWallets returns the caller's wallets. ownerID may be the caller's id or email.
func (s *LedgerServiceImpl) ListWallets(ctx context.Context, id domain.Identity, ownerID string) ([]domain.Wallet, error) {
	if !s.isCaller(id, ownerID) {
		return nil, apperror.ErrForbidden()
	}

	wallets, err := s.wallets.ListByOwner(ctx, id.OwnerRef())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list wallets: %w", err))
	}

	for i := range wallets {
		wallets[i].Balance = domain.RoundMoney(wallets[i].Balance)
	}
	return wallets, nil
}

// GetWallet returns one of the caller's wallets.
func (s *LedgerServiceImpl) GetWallet(ctx context.Context, id domain.Identity, walletID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.ownedWallet(ctx, id, walletID)
	if err != nil {
		return nil, err
	}
	wallet.Balance = domain.RoundMoney(wallet.Balance)
	return wallet, nil
}

// UpdateWallet renames a wallet or changes its currency label. Balance and
// transactions are untouched.
func (s *LedgerServiceImpl) UpdateWallet(ctx context.Context, id domain.Identity, walletID uuid.UUID, req ports.UpdateWalletRequest) (*domain.Wallet, error) {
	name, currency, err := validateMetadata(req.Name, req.Currency)
	if err != nil {
		return nil, err
	}

	if _, err := s.ownedWallet(ctx, id, walletID); err != nil {
		return nil, err
	}

	wallet, err := s.wallets.UpdateMetadata(ctx, walletID, name, currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	s.log.Info().Str("wallet_id", walletID.String()).Msg("wallet updated")
	return wallet, nil
}

// DeleteWallet removes a wallet and its embedded transactions.
func (s *LedgerServiceImpl) DeleteWallet(ctx context.Context, id domain.Identity, walletID uuid.UUID) error {
	if _, err := s.ownedWallet(ctx, id, walletID); err != nil {
		return err
	}

	deleted, err := s.wallets.Delete(ctx, walletID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("delete wallet: %w", err))
	}
	if !deleted {
		return apperror.ErrWalletNotFound()
	}

	s.log.Info().Str("wallet_id", walletID.String()).Str("user_id", id.OwnerRef()).Msg("wallet deleted")
	return nil
}

// PostTransaction records an income or expense and moves the balance.
// The wallet is looked up before the input is validated, so an unknown wallet
// is a 404 whatever the body says. Expenses larger than the balance are
// rejected and leave the wallet unchanged. The store applies the posting with a
// conditional write, so concurrent postings cannot overdraw the wallet.
func (s *LedgerServiceImpl) PostTransaction(ctx context.Context, id domain.Identity, walletID uuid.UUID, req ports.PostTransactionRequest) (*domain.Wallet, error) {
	wallet, err := s.ownedWallet(ctx, id, walletID)
	if err != nil {
		return nil, err
	}

	if !req.Type.Valid() {
		return nil, apperror.Validation("type must be income or expense")
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, apperror.ErrInvalidAmount()
	}
	description := strings.TrimSpace(req.Description)
	category := strings.TrimSpace(req.Category)

	// Layer 1: replay a previous response, or claim the key for this request
	var idempKey string
	if req.IdempotencyKey != "" && s.idempCache != nil {
		idempKey = buildIdempotencyKey(id, walletID, req.IdempotencyKey)
		replay, claimed, err := s.claimIdempotencyKey(ctx, idempKey)
		if err != nil {
			return nil, err
		}
		if replay != nil {
			return replay, nil
		}
		if !claimed {
			idempKey = ""
		}
	}

	updated, tx, err := s.appendPosting(ctx, wallet, domain.NewTransaction(req.Type, amount, description, category, s.now()))
	if err != nil {
		if idempKey != "" {
			s.releaseIdempotencyKey(ctx, idempKey)
		}
		return nil, err
	}

	// The claim is left to expire; later requests find the cached response.
	if idempKey != "" {
		if respJSON, err := json.Marshal(updated); err == nil {
			if err := s.idempCache.Set(ctx, idempKey, respJSON, idempotencyTTL); err != nil {
				s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotent response")
			}
		}
	}

	if s.publisher != nil {
		s.publisher.PublishBalance(id.OwnerRef(), ports.BalanceUpdate{
			WalletID:         updated.ID,
			Balance:          updated.Balance,
			Currency:         updated.Currency,
			TransactionCount: len(updated.Transactions),
		})
	}

	s.log.Info().
		Str("wallet_id", walletID.String()).
		Str("user_id", id.OwnerRef()).
		Str("tx_id", tx.ID.String()).
		Str("type", string(tx.Type)).
		Str("amount", tx.Amount.StringFixed(domain.MoneyPlaces)).
		Str("balance", updated.Balance.StringFixed(domain.MoneyPlaces)).
		Msg("transaction posted")

	return updated, nil
}

// claimIdempotencyKey returns the cached response for key if there is one.
// Otherwise it claims key with SET NX; a lost claim is re-checked once for a
// response that landed meanwhile and then reported as in progress. Redis
// failures are logged and the posting proceeds unclaimed.
func (s *LedgerServiceImpl) claimIdempotencyKey(ctx context.Context, key string) (replay *domain.Wallet, claimed bool, err error) {
	if cached := s.cachedResponse(ctx, key); cached != nil {
		w, err := s.unmarshalCachedWallet(cached)
		return w, false, err
	}

	claimed, err = s.idempCache.Claim(ctx, key, idempotencyClaimTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("idempotency claim failed, posting normally")
		return nil, false, nil
	}
	if claimed {
		return nil, true, nil
	}

	if cached := s.cachedResponse(ctx, key); cached != nil {
		w, err := s.unmarshalCachedWallet(cached)
		return w, false, err
	}
	return nil, false, apperror.ErrIdempotencyInProgress()
}

func (s *LedgerServiceImpl) cachedResponse(ctx context.Context, key string) []byte {
	cached, err := s.idempCache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("idempotency lookup failed")
		return nil
	}
	return cached
}

func (s *LedgerServiceImpl) releaseIdempotencyKey(ctx context.Context, key string) {
	if err := s.idempCache.Release(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to release idempotency claim")
	}
}

// appendPosting checks the bounds against the loaded wallet, then applies tx
// through the store's conditional write, which re-checks them atomically.
func (s *LedgerServiceImpl) appendPosting(ctx context.Context, wallet *domain.Wallet, tx domain.Transaction) (*domain.Wallet, domain.Transaction, error) {
	if err := wallet.CheckApply(tx); err != nil {
		return nil, tx, postingError(err)
	}

	updated, err := s.wallets.AppendTransaction(ctx, wallet.ID, tx)
	if errors.Is(err, domain.ErrInsufficientBalance) || errors.Is(err, domain.ErrBalanceLimit) {
		return nil, tx, postingError(err)
	}
	if err != nil {
		return nil, tx, apperror.InternalError(fmt.Errorf("append transaction: %w", err))
	}
	if updated == nil {
		return nil, tx, apperror.ErrWalletNotFound()
	}
	return updated, tx, nil
}

func postingError(err error) error {
	if errors.Is(err, domain.ErrBalanceLimit) {
		return apperror.ErrBalanceLimit()
	}
	return apperror.ErrInsufficientBalance()
}

// Summarize totals the wallet's transactions over a trailing period.
// An empty period means all time.
func (s *LedgerServiceImpl) Summarize(ctx context.Context, id domain.Identity, walletID uuid.UUID, period string) (*domain.Summary, error) {
	p, err := domain.ParsePeriod(period)
	if err != nil {
		return nil, apperror.Validation("period must be one of day, week, month, year, all")
	}

	wallet, err := s.ownedWallet(ctx, id, walletID)
	if err != nil {
		return nil, err
	}

	summary := domain.Summarize(wallet.Transactions, p, s.now())
	return &summary, nil
}

// ownedWallet loads a wallet and hides wallets belonging to other users.
func (s *LedgerServiceImpl) ownedWallet(ctx context.Context, id domain.Identity, walletID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil || !wallet.OwnedBy(id) {
		return nil, apperror.ErrWalletNotFound()
	}
	return wallet, nil
}

// isCaller reports whether ref names the caller, by user id or email.
func (s *LedgerServiceImpl) isCaller(id domain.Identity, ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	if ref == id.OwnerRef() {
		return true
	}
	return id.Email != "" && domain.NormalizeEmail(ref) == domain.NormalizeEmail(id.Email)
}

func (s *LedgerServiceImpl) unmarshalCachedWallet(data []byte) (*domain.Wallet, error) {
	wallet := &domain.Wallet{}
	if err := json.Unmarshal(data, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached wallet: %w", err))
	}
	return wallet, nil
}

func validateMetadata(name, currency string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", apperror.Validation("name is required")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return "", "", apperror.Validation("currency is required")
	}
	if utf8.RuneCountInString(currency) > maxCurrencyLength {
		return "", "", apperror.Validation("currency must be at most 10 characters")
	}
	return name, currency, nil
}

// buildIdempotencyKey scopes a client key to one user and wallet.
func buildIdempotencyKey(id domain.Identity, walletID uuid.UUID, key string) string {
	return fmt.Sprintf("%s:%s:%s", id.OwnerRef(), walletID, key)
}
