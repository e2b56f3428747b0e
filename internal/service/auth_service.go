package service

import (
	"context"
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
	minPasswordLength = 8
	maxPasswordLength = 128
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo ports.UserRepository
	hashSvc  ports.HashService
	tokenSvc ports.TokenService
	verifier ports.IdentityVerifier // nil = Google sign-in disabled
	denylist ports.TokenDenylist    // nil = logout is client-side only
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	userRepo ports.UserRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	verifier ports.IdentityVerifier,
	denylist ports.TokenDenylist,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo: userRepo,
		hashSvc:  hashSvc,
		tokenSvc: tokenSvc,
		verifier: verifier,
		denylist: denylist,
		log:      log,
		now:      time.Now,
	}
}

// Register creates an email/password account and signs it in.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*ports.Session, error) {
	email := domain.NormalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.Validation("a valid email is required")
	}
	if n := utf8.RuneCountInString(req.Password); n < minPasswordLength || n > maxPasswordLength {
		return nil, apperror.Validation("password must be 8 to 128 characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:                uuid.New(),
		Email:             email,
		DisplayName:       trimmedOrNil(req.DisplayName),
		Provider:          domain.AuthProviderPassword,
		PasswordHash:      &passwordHash,
		PasswordChangedAt: &now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, apperror.ErrEmailExists()
		}
		return nil, apperror.InternalError(fmt.Errorf("create user: %w", err))
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return s.issue(user)
}

// Login validates credentials and returns a session token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	user, err := s.userRepo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil || user.PasswordHash == nil {
		return nil, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, *user.PasswordHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return nil, apperror.ErrInvalidCredentials()
	}

	return s.issue(user)
}

// LoginWithGoogle verifies a Firebase ID token, upserts the user's profile and
// returns a session token. The token's email must be verified, and an account
// already bound to another provider subject is refused.
func (s *AuthServiceImpl) LoginWithGoogle(ctx context.Context, idToken string) (*ports.Session, error) {
	if s.verifier == nil {
		return nil, apperror.ErrInvalidIdentityToken(errors.New("identity provider not configured"))
	}

	ext, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, apperror.ErrInvalidIdentityToken(err)
	}
	email := domain.NormalizeEmail(ext.Email)
	if email == "" {
		return nil, apperror.ErrInvalidIdentityToken(errors.New("token has no email claim"))
	}
	// Accounts are matched by email, so an unverified address must never sign in.
	if !ext.EmailVerified {
		return nil, apperror.ErrInvalidIdentityToken(errors.New("email not verified"))
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get user by email: %w", err))
	}
	if existing != nil && existing.ExternalID != nil && *existing.ExternalID != ext.Subject {
		s.log.Warn().Str("user_id", existing.ID.String()).Msg("google sign-in for an email bound to another subject")
		return nil, apperror.ErrInvalidIdentityToken(errors.New("email is bound to a different identity"))
	}

	now := s.now().UTC()
	subject := ext.Subject
	user, err := s.userRepo.Upsert(ctx, &domain.User{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: trimmedOrNil(&ext.Name),
		PhotoURL:    trimmedOrNil(&ext.Picture),
		Provider:    domain.AuthProviderGoogle,
		ExternalID:  &subject,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("upsert user: %w", err))
	}

	return s.issue(user)
}

// Logout revokes the caller's current token until it would have expired.
func (s *AuthServiceImpl) Logout(ctx context.Context, id domain.Identity) error {
	if s.denylist == nil || id.TokenID == "" {
		return nil
	}

	ttl := id.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.denylist.Revoke(ctx, id.TokenID, ttl); err != nil {
		return apperror.InternalError(fmt.Errorf("revoke token: %w", err))
	}

	s.log.Info().Str("user_id", id.OwnerRef()).Msg("user logged out")
	return nil
}

func (s *AuthServiceImpl) issue(user *domain.User) (*ports.Session, error) {
	token, expiry, err := s.tokenSvc.Generate(user.ID, user.Email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}
	return &ports.Session{Token: token, Expiry: expiry, User: user}, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
