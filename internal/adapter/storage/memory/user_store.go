package memory

import (
	"context"
	"sync"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// UserStore implements ports.UserRepository with a unique email index.
type UserStore struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]*domain.User
	byEmail map[string]uuid.UUID
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{
		users:   make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

// Create inserts a new user, or returns domain.ErrEmailTaken.
func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[u.Email]; taken {
		return domain.ErrEmailTaken
	}
	c := *u
	s.users[u.ID] = &c
	s.byEmail[u.Email] = u.ID
	return nil
}

// GetByID returns a copy of the user, or nil if there is none.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

// GetByEmail looks a user up by email as stored, returning nil if absent.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	c := *s.users[id]
	return &c, nil
}

// Upsert mirrors the postgres ON CONFLICT (email) behaviour: nil profile
// fields keep the stored value and id, provider and password never change.
func (s *UserStore) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[u.Email]
	if !ok {
		c := *u
		s.users[u.ID] = &c
		s.byEmail[u.Email] = u.ID
		out := c
		return &out, nil
	}

	stored := s.users[id]
	if u.DisplayName != nil {
		stored.DisplayName = u.DisplayName
	}
	if u.PhotoURL != nil {
		stored.PhotoURL = u.PhotoURL
	}
	if u.ExternalID != nil {
		stored.ExternalID = u.ExternalID
	}
	stored.UpdatedAt = u.UpdatedAt
	out := *stored
	return &out, nil
}
