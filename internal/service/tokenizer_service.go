package service

import (
	"fmt"
	"strings"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
)

const (
	minAccountDigits = 4
	maxAccountDigits = 34
	maskedPrefix     = "****"
)

// AccountTokenizerImpl implements ports.AccountTokenizer. A token is
// TOK_<AES-GCM ciphertext hex>_<last 4 digits>; the ledger never decrypts it.
type AccountTokenizerImpl struct {
	encSvc ports.EncryptionService
}

// NewAccountTokenizer creates a tokenizer backed by the given cipher.
func NewAccountTokenizer(encSvc ports.EncryptionService) *AccountTokenizerImpl {
	return &AccountTokenizerImpl{encSvc: encSvc}
}

// Tokenize encrypts a raw account number. Spaces and dashes are ignored.
func (t *AccountTokenizerImpl) Tokenize(accountNumber string) (string, error) {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(accountNumber)
	if len(digits) < minAccountDigits || len(digits) > maxAccountDigits || !isDigits(digits) {
		return "", apperror.Validation("account_number must be 4 to 34 digits")
	}

	ciphertext, err := t.encSvc.Encrypt(digits)
	if err != nil {
		return "", apperror.ErrEncryptionFailure(fmt.Errorf("tokenize account: %w", err))
	}

	return fmt.Sprintf("TOK_%s_%s", ciphertext, digits[len(digits)-4:]), nil
}

// Mask renders a token for display, exposing only the last four digits.
func (t *AccountTokenizerImpl) Mask(token string) string {
	if !domain.ValidAccountReference(token) {
		return maskedPrefix
	}
	return maskedPrefix + token[len(token)-4:]
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
