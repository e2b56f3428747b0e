package memory

import (
	"context"
	"sync"

	"wallet-ledger/internal/core/domain"
)

// AuditStore implements ports.AuditRepository by keeping entries in memory.
type AuditStore struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

// NewAuditStore creates an empty AuditStore.
func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

// Create appends a copy of the entry.
func (s *AuditStore) Create(ctx context.Context, log *domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *log)
	return nil
}

// Entries returns a snapshot of the recorded entries.
func (s *AuditStore) Entries() []domain.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditLog(nil), s.entries...)
}
