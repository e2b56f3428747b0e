package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const userColumns = `id, email, display_name, photo_url, provider, external_id, password_hash, password_changed_at, created_at, updated_at`

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create inserts a new user. A duplicate email yields domain.ErrEmailTaken.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Email, u.DisplayName, u.PhotoURL, string(u.Provider),
		u.ExternalID, u.PasswordHash, u.PasswordChangedAt, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Upsert inserts the user, or refreshes profile fields on the row with the
// same email. NULL incoming fields keep the stored value; provider, password
// and id are never overwritten.
func (r *UserRepo) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (email) DO UPDATE SET
			display_name = COALESCE(EXCLUDED.display_name, users.display_name),
			photo_url = COALESCE(EXCLUDED.photo_url, users.photo_url),
			external_id = COALESCE(EXCLUDED.external_id, users.external_id),
			updated_at = EXCLUDED.updated_at
		RETURNING ` + userColumns

	stored, err := scanUser(r.pool.QueryRow(ctx, query,
		u.ID, u.Email, u.DisplayName, u.PhotoURL, string(u.Provider),
		u.ExternalID, u.PasswordHash, u.PasswordChangedAt, u.CreatedAt, u.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return stored, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u        domain.User
		provider string
	)
	if err := row.Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.PhotoURL, &provider,
		&u.ExternalID, &u.PasswordHash, &u.PasswordChangedAt, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Provider = domain.AuthProvider(provider)
	return &u, nil
}
