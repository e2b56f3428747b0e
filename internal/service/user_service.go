package service

import (
	"context"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// UserServiceImpl implements ports.UserService.
type UserServiceImpl struct {
	userRepo       ports.UserRepository
	maxPasswordAge time.Duration
	warnBefore     time.Duration
	log            zerolog.Logger
	now            func() time.Time
}

// NewUserService creates a new UserServiceImpl. maxPasswordAge and warnBefore
// drive the password expiration check.
func NewUserService(userRepo ports.UserRepository, maxPasswordAge, warnBefore time.Duration, log zerolog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo:       userRepo,
		maxPasswordAge: maxPasswordAge,
		warnBefore:     warnBefore,
		log:            log,
		now:            time.Now,
	}
}

// UpsertProfile updates the caller's display name and photo. Absent or empty
// fields keep their stored value.
func (s *UserServiceImpl) UpsertProfile(ctx context.Context, id domain.Identity, req ports.ProfileRequest) (*domain.User, error) {
	user, err := s.currentUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := trimmedOrNil(req.DisplayName); v != nil {
		user.DisplayName = v
	}
	if v := trimmedOrNil(req.PhotoURL); v != nil {
		user.PhotoURL = v
	}
	user.UpdatedAt = s.now().UTC()

	stored, err := s.userRepo.Upsert(ctx, user)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("upsert user: %w", err))
	}

	s.log.Info().Str("user_id", stored.ID.String()).Msg("profile updated")
	return stored, nil
}

// GetByEmail returns the caller's own profile. Other users' profiles are forbidden.
func (s *UserServiceImpl) GetByEmail(ctx context.Context, id domain.Identity, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || email != domain.NormalizeEmail(id.Email) {
		return nil, apperror.ErrForbidden()
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrUserNotFound()
	}
	return user, nil
}

// PasswordExpiration reports how long the caller's password remains valid.
func (s *UserServiceImpl) PasswordExpiration(ctx context.Context, id domain.Identity) (*domain.PasswordStatus, error) {
	user, err := s.currentUser(ctx, id)
	if err != nil {
		return nil, err
	}

	status := user.PasswordStatus(s.now().UTC(), s.maxPasswordAge, s.warnBefore)
	return &status, nil
}

func (s *UserServiceImpl) currentUser(ctx context.Context, id domain.Identity) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrUserNotFound()
	}
	return user, nil
}
