package dto

import (
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"wallet-ledger/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	safeStringRe   = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]+$`)
	currencyCodeRe = regexp.MustCompile(`^[A-Za-z]{1,10}$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("safe_id", validateSafeID)
		_ = v.RegisterValidation("safe_url", validateSafeURL)
		_ = v.RegisterValidation("account_token", validateAccountToken)
		_ = v.RegisterValidation("currency_code", validateCurrencyCode)
	}
}

// validateSafeID allows alphanumeric, underscore, dash, and dot.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeStringRe.MatchString(fl.Field().String())
}

// validateSafeURL accepts only http/https URLs.
func validateSafeURL(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if raw == "" {
		return true // optional field; use "required" tag to enforce presence
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// validateAccountToken accepts TOK_<payload>_<last 4 digits>.
func validateAccountToken(fl validator.FieldLevel) bool {
	return domain.ValidAccountReference(strings.TrimSpace(fl.Field().String()))
}

// validateCurrencyCode accepts a short alphabetic label such as PHP or USD.
func validateCurrencyCode(fl validator.FieldLevel) bool {
	return currencyCodeRe.MatchString(strings.TrimSpace(fl.Field().String()))
}

// SanitizeStruct trims whitespace and drops control characters from every
// exported string field (including *string) of a struct pointer. Fields
// tagged sanitize:"-" are left alone.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() || rt.Field(i).Tag.Get("sanitize") == "-" {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(sanitize(elem.String()))
			}
		}
	}
}

func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
