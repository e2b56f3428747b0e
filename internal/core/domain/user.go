package domain

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmailTaken is returned by stores when a user with the same email exists.
var ErrEmailTaken = errors.New("email already registered")

// AuthProvider identifies how a user signs in.
type AuthProvider string

const (
	AuthProviderPassword AuthProvider = "password"
	AuthProviderGoogle   AuthProvider = "google"
)

// User is an account holder. Users are upserted on every sign-in and never deleted.
type User struct {
	ID                uuid.UUID    `json:"id"`
	Email             string       `json:"email"`
	DisplayName       *string      `json:"display_name,omitempty"`
	PhotoURL          *string      `json:"photo_url,omitempty"`
	Provider          AuthProvider `json:"provider"`
	ExternalID        *string      `json:"-"` // identity provider uid
	PasswordHash      *string      `json:"-"` // Argon2id encoded, never expose
	PasswordChangedAt *time.Time   `json:"password_changed_at,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PasswordStatus describes how close a password is to its maximum age.
type PasswordStatus struct {
	Provider      AuthProvider `json:"provider"`
	ChangedAt     *time.Time   `json:"changed_at,omitempty"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
	DaysRemaining *int         `json:"days_remaining,omitempty"`
	Expired       bool         `json:"expired"`
	Warning       bool         `json:"warning"`
}

// PasswordStatus computes expiry for password accounts. Accounts without a
// password never expire.
func (u *User) PasswordStatus(now time.Time, maxAge, warnBefore time.Duration) PasswordStatus {
	st := PasswordStatus{Provider: u.Provider}
	if u.Provider != AuthProviderPassword || u.PasswordChangedAt == nil {
		return st
	}

	changed := u.PasswordChangedAt.UTC()
	expires := changed.Add(maxAge)
	left := expires.Sub(now)
	days := int(math.Ceil(left.Hours() / 24))
	if days < 0 {
		days = 0
	}

	st.ChangedAt = &changed
	st.ExpiresAt = &expires
	st.DaysRemaining = &days
	st.Expired = left <= 0
	st.Warning = !st.Expired && left <= warnBefore
	return st
}
