package memory

import (
	"context"
	"sync"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// BankLinkStore implements ports.BankLinkRepository.
type BankLinkStore struct {
	mu    sync.RWMutex
	links []domain.BankLink
}

// NewBankLinkStore creates an empty BankLinkStore.
func NewBankLinkStore() *BankLinkStore {
	return &BankLinkStore{}
}

// Create stores a copy of the link.
func (s *BankLinkStore) Create(ctx context.Context, link *domain.BankLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links = append(s.links, *link)
	return nil
}

// GetLatestByUser returns the newest link by CreatedAt; ties go to the later insert.
func (s *BankLinkStore) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*domain.BankLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.BankLink
	for i := range s.links {
		l := &s.links[i]
		if l.UserID != userID {
			continue
		}
		if latest == nil || !l.CreatedAt.Before(latest.CreatedAt) {
			latest = l
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := *latest
	return &c, nil
}
