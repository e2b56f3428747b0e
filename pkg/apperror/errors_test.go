package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("WAL_003", "Insufficient balance", http.StatusBadRequest),
			expected: "[WAL_003] Insufficient balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("WAL_001", "test", http.StatusNotFound)
	assert.Nil(t, appErr.Unwrap())
}

func TestLedgerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"Validation", Validation("name is required"), "VAL_001", 400},
		{"InvalidAmount", ErrInvalidAmount(), "VAL_002", 400},
		{"PayloadTooLarge", ErrPayloadTooLarge(), "VAL_003", 413},
		{"WalletNotFound", ErrWalletNotFound(), "WAL_001", 404},
		{"InvalidAccountReference", ErrInvalidAccountReference(), "WAL_002", 400},
		{"InsufficientBalance", ErrInsufficientBalance(), "WAL_003", 400},
		{"UserNotFound", ErrUserNotFound(), "USR_001", 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestAuthErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidCredentials", ErrInvalidCredentials(), "AUTH_001", 401},
		{"EmailExists", ErrEmailExists(), "AUTH_002", 409},
		{"InvalidToken", ErrInvalidToken(), "AUTH_003", 401},
		{"InvalidIdentityToken", ErrInvalidIdentityToken(nil), "AUTH_004", 401},
		{"Forbidden", ErrForbidden(), "AUTH_005", 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestInsufficientBalance_MessageIsDistinguishable(t *testing.T) {
	assert.Equal(t, "Insufficient balance", ErrInsufficientBalance().Message)
	assert.NotEqual(t, ErrInsufficientBalance().Code, Validation("x").Code)
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	dbErr := ErrDatabaseError(inner)
	assert.Equal(t, "SYS_001", dbErr.Code)
	assert.Equal(t, 500, dbErr.HTTPStatus)
	assert.True(t, errors.Is(dbErr, inner))

	encErr := ErrEncryptionFailure(inner)
	assert.Equal(t, "SYS_003", encErr.Code)
	assert.Equal(t, 500, encErr.HTTPStatus)

	internal := InternalError(inner)
	assert.Equal(t, "Internal server error", internal.Message)
	assert.True(t, errors.Is(internal, inner))
}

func TestBankErrors(t *testing.T) {
	inner := fmt.Errorf("plaid: 400 INVALID_PUBLIC_TOKEN")
	err := ErrBankProvider(inner)
	assert.Equal(t, "BNK_001", err.Code)
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)
	assert.True(t, errors.Is(err, inner))

	assert.Equal(t, http.StatusNotFound, ErrBankLinkNotFound().HTTPStatus)
}

func TestRateLimitError(t *testing.T) {
	err := ErrRateLimitExceeded()
	assert.Equal(t, "RATE_001", err.Code)
	assert.Equal(t, 429, err.HTTPStatus)
}
