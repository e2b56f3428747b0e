package ports

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Infrastructure Ports ---

// EncryptionService handles AES-256-GCM encryption/decryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService issues and validates session JWTs.
type TokenService interface {
	Generate(userID uuid.UUID, email string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// IdentityVerifier checks an identity provider's ID token.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*ExternalIdentity, error)
}

// ExternalIdentity is the verified subject of a provider ID token.
type ExternalIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// IdempotencyCache stores serialized responses keyed by client-supplied keys.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Claim marks key as in flight. It returns false if another request holds it.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// TokenDenylist records revoked session tokens until they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AccountTokenizer turns raw account numbers into opaque references.
type AccountTokenizer interface {
	Tokenize(accountNumber string) (string, error)
	Mask(token string) string
}

// BankAggregator wraps the bank-linking provider API.
type BankAggregator interface {
	CreateLinkToken(ctx context.Context, clientUserID string) (*LinkToken, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*ItemAccess, error)
	GetAccounts(ctx context.Context, accessToken string) ([]domain.BankAccount, error)
}

// LinkToken is a short-lived token used to open the provider's link flow.
type LinkToken struct {
	LinkToken  string    `json:"link_token"`
	Expiration time.Time `json:"expiration"`
	RequestID  string    `json:"request_id,omitempty"`
}

// ItemAccess is the result of exchanging a public token.
type ItemAccess struct {
	AccessToken string
	ItemID      string
}

// BalancePublisher pushes balance changes to a user's live connections.
type BalancePublisher interface {
	PublishBalance(userID string, update BalanceUpdate)
}

// BalanceUpdate is the payload sent after a posting.
type BalanceUpdate struct {
	WalletID         uuid.UUID       `json:"wallet_id"`
	Balance          decimal.Decimal `json:"balance"`
	Currency         string          `json:"currency"`
	TransactionCount int             `json:"transaction_count"`
}

// --- Service Ports (Business Logic) ---

// LedgerService is the wallet ledger: wallets, postings and summaries.
// Every call carries the verified caller; wallets owned by someone else
// are reported as not found.
type LedgerService interface {
	CreateWallet(ctx context.Context, id domain.Identity, req CreateWalletRequest) (*domain.Wallet, error)
	ListWallets(ctx context.Context, id domain.Identity, ownerID string) ([]domain.Wallet, error)
	GetWallet(ctx context.Context, id domain.Identity, walletID uuid.UUID) (*domain.Wallet, error)
	UpdateWallet(ctx context.Context, id domain.Identity, walletID uuid.UUID, req UpdateWalletRequest) (*domain.Wallet, error)
	DeleteWallet(ctx context.Context, id domain.Identity, walletID uuid.UUID) error
	PostTransaction(ctx context.Context, id domain.Identity, walletID uuid.UUID, req PostTransactionRequest) (*domain.Wallet, error)
	Summarize(ctx context.Context, id domain.Identity, walletID uuid.UUID, period string) (*domain.Summary, error)
}

// CreateWalletRequest holds input for wallet creation. OwnerID defaults to the caller.
type CreateWalletRequest struct {
	OwnerID       string
	Name          string
	Currency      string
	AccountNumber *string
}

// UpdateWalletRequest holds the mutable wallet metadata.
type UpdateWalletRequest struct {
	Name     string
	Currency string
}

// PostTransactionRequest holds input for a posting.
type PostTransactionRequest struct {
	Type           domain.TransactionType
	Amount         string // decimal text as posted, validated after the wallet lookup
	Description    string
	Category       string
	IdempotencyKey string
}

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*Session, error)
	Logout(ctx context.Context, id domain.Identity) error
}

// RegisterRequest holds input for email/password sign-up.
type RegisterRequest struct {
	Email       string
	Password    string
	DisplayName *string
}

// Session is an issued access token and the user it belongs to.
type Session struct {
	Token  string
	Expiry time.Time
	User   *domain.User
}

// UserService manages profiles and password-age checks.
type UserService interface {
	UpsertProfile(ctx context.Context, id domain.Identity, req ProfileRequest) (*domain.User, error)
	GetByEmail(ctx context.Context, id domain.Identity, email string) (*domain.User, error)
	PasswordExpiration(ctx context.Context, id domain.Identity) (*domain.PasswordStatus, error)
}

// ProfileRequest holds optional profile fields.
type ProfileRequest struct {
	DisplayName *string
	PhotoURL    *string
}

// BankService links bank accounts through the aggregator.
type BankService interface {
	CreateLinkToken(ctx context.Context, id domain.Identity) (*LinkToken, error)
	ExchangePublicToken(ctx context.Context, id domain.Identity, publicToken string) (*domain.BankLink, error)
	ListAccounts(ctx context.Context, id domain.Identity) ([]domain.BankAccount, error)
}

// AuditService records audit entries asynchronously.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
