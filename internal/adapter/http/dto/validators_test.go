package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := CreateWalletRequest{
		UserID:   "  user-1  ",
		Name:     " Cash ",
		Currency: " PHP ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "user-1", req.UserID)
	assert.Equal(t, "Cash", req.Name)
	assert.Equal(t, "PHP", req.Currency)
}

func TestSanitizeStruct_StripsControlCharacters(t *testing.T) {
	req := PostTransactionRequest{
		Type:        "expense",
		Description: "Groceries\x00 & more\n",
		Category:    "Food\x1b",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "Groceries & more", req.Description)
	assert.Equal(t, "Food", req.Category)
}

func TestSanitizeStruct_SkipsTaggedFields(t *testing.T) {
	req := RegisterRequest{Email: " jane@example.com ", Password: "  pass word  "}
	SanitizeStruct(&req)

	assert.Equal(t, "jane@example.com", req.Email)
	assert.Equal(t, "  pass word  ", req.Password)
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	photo := "  https://example.com/me.png  "
	req := ProfileRequest{PhotoURL: &photo}
	SanitizeStruct(&req)

	assert.Equal(t, "https://example.com/me.png", *req.PhotoURL)
	assert.Nil(t, req.DisplayName)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"ref-001",
		"REF_002",
		"a.b.c",
		"simple123",
		"ABC-def_GHI.123",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"ref 001",     // space
		"ref<001>",    // angle brackets
		"ref;DROP",    // semicolon
		"",            // empty
		"hello world", // space
		"ref\n001",    // newline
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

func TestAccountTokenValidator(t *testing.T) {
	valid := "TOK_a1b2c3_1234"
	invalid := "1234567890"
	padded := "  TOK_a1b2c3_1234 "
	empty := ""

	assert.NoError(t, binding.Validator.ValidateStruct(&CreateWalletRequest{Name: "Cash", Currency: "PHP", AccountNumber: &valid}))
	assert.NoError(t, binding.Validator.ValidateStruct(&CreateWalletRequest{Name: "Cash", Currency: "PHP", AccountNumber: &padded}))
	assert.NoError(t, binding.Validator.ValidateStruct(&CreateWalletRequest{Name: "Cash", Currency: "PHP", AccountNumber: &empty}))
	assert.NoError(t, binding.Validator.ValidateStruct(&CreateWalletRequest{Name: "Cash", Currency: "PHP"}))
	assert.Error(t, binding.Validator.ValidateStruct(&CreateWalletRequest{Name: "Cash", Currency: "PHP", AccountNumber: &invalid}))
}

func TestCurrencyCodeValidator(t *testing.T) {
	for _, c := range []string{"PHP", "usd", " EUR "} {
		assert.NoError(t, binding.Validator.ValidateStruct(&UpdateWalletRequest{Name: "n", Currency: c}), c)
	}
	for _, c := range []string{"US$", "12", "ABCDEFGHIJK"} {
		assert.Error(t, binding.Validator.ValidateStruct(&UpdateWalletRequest{Name: "n", Currency: c}), c)
	}
}

func TestSafeURLValidator(t *testing.T) {
	good := "https://example.com/a.png"
	bad := "javascript:alert(1)"

	assert.NoError(t, binding.Validator.ValidateStruct(&ProfileRequest{PhotoURL: &good}))
	assert.Error(t, binding.Validator.ValidateStruct(&ProfileRequest{PhotoURL: &bad}))
	assert.NoError(t, binding.Validator.ValidateStruct(&ProfileRequest{}))
}

func TestIdempotencyHeaderValidator(t *testing.T) {
	assert.NoError(t, binding.Validator.ValidateStruct(&IdempotencyHeader{}))
	assert.NoError(t, binding.Validator.ValidateStruct(&IdempotencyHeader{Key: "order-42"}))
	assert.Error(t, binding.Validator.ValidateStruct(&IdempotencyHeader{Key: "order 42"}))
}
