package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

// Validation returns a VAL_001 error carrying the given message.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("VAL_002", "Invalid transaction amount", http.StatusBadRequest)
}

func ErrPayloadTooLarge() *AppError {
	return New("VAL_003", "Request body too large", http.StatusRequestEntityTooLarge)
}

// ---- Wallet Ledger (WAL) ----

func ErrWalletNotFound() *AppError {
	return New("WAL_001", "Wallet not found", http.StatusNotFound)
}

func ErrInvalidAccountReference() *AppError {
	return New("WAL_002", "Account reference must look like TOK_<token>_<last 4 digits>", http.StatusBadRequest)
}

func ErrInsufficientBalance() *AppError {
	return New("WAL_003", "Insufficient balance", http.StatusBadRequest)
}

func ErrBalanceLimit() *AppError {
	return New("VAL_002", "Amount would take the balance above the maximum", http.StatusBadRequest)
}

func ErrIdempotencyInProgress() *AppError {
	return New("WAL_004", "A request with this Idempotency-Key is still in progress", http.StatusConflict)
}

// ---- Users (USR) ----

func ErrUserNotFound() *AppError {
	return New("USR_001", "User not found", http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid email or password", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_002", "Email already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrInvalidIdentityToken(err error) *AppError {
	return Wrap("AUTH_004", "Invalid identity provider token", http.StatusUnauthorized, err)
}

func ErrForbidden() *AppError {
	return New("AUTH_005", "Access to this resource is not allowed", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- Bank link (BNK) ----

func ErrBankProvider(err error) *AppError {
	return Wrap("BNK_001", "Bank provider request failed", http.StatusBadGateway, err)
}

func ErrBankLinkNotFound() *AppError {
	return New("BNK_002", "No linked bank account", http.StatusNotFound)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
