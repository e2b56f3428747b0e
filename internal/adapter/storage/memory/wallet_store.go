// Package memory holds map-backed implementations of the repository ports,
// used for local runs (storage.driver: memory) and end-to-end tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// WalletStore implements ports.WalletRepository.
type WalletStore struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.Wallet
}

// NewWalletStore creates an empty WalletStore.
func NewWalletStore() *WalletStore {
	return &WalletStore{wallets: make(map[uuid.UUID]*domain.Wallet)}
}

// Create stores a copy of the wallet.
func (s *WalletStore) Create(ctx context.Context, w *domain.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[w.ID] = cloneWallet(w)
	return nil
}

// GetByID returns a copy of the wallet, or nil if it does not exist.
func (s *WalletStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[id]
	if !ok {
		return nil, nil
	}
	return cloneWallet(w), nil
}

// ListByOwner returns the owner's wallets oldest first.
func (s *WalletStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Wallet{}
	for _, w := range s.wallets {
		if w.OwnerID == ownerID {
			out = append(out, *cloneWallet(w))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// UpdateMetadata changes name and currency, leaving balance and transactions alone.
func (s *WalletStore) UpdateMetadata(ctx context.Context, id uuid.UUID, name, currency string) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[id]
	if !ok {
		return nil, nil
	}
	w.Name = name
	w.Currency = currency
	w.UpdatedAt = time.Now().UTC()
	return cloneWallet(w), nil
}

// Delete removes the wallet and reports whether it existed.
func (s *WalletStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wallets[id]; !ok {
		return false, nil
	}
	delete(s.wallets, id)
	return true, nil
}

// AppendTransaction checks the bounds and applies tx under the write lock, the
// in-process equivalent of the conditional UPDATE in the postgres store.
func (s *WalletStore) AppendTransaction(ctx context.Context, id uuid.UUID, tx domain.Transaction) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[id]
	if !ok {
		return nil, nil
	}
	if err := w.Apply(tx); err != nil {
		return nil, err
	}
	return cloneWallet(w), nil
}

func cloneWallet(w *domain.Wallet) *domain.Wallet {
	c := *w
	c.Transactions = append([]domain.Transaction{}, w.Transactions...)
	if w.AccountNumber != nil {
		ref := *w.AccountNumber
		c.AccountNumber = &ref
	}
	return &c
}
