// Package firebase verifies Firebase Authentication ID tokens (Google
// sign-in) against Google's published signing certificates.
package firebase

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const issuerPrefix = "https://securetoken.google.com/"

var (
	ErrNotConfigured = errors.New("firebase project id is not configured")
	ErrUnknownKeyID  = errors.New("token signed with unknown key id")
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type idTokenClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	jwt.RegisteredClaims
}

// Verifier implements ports.IdentityVerifier.
type Verifier struct {
	projectID string
	certsURL  string
	cacheTTL  time.Duration
	http      HTTPClient
	log       zerolog.Logger
	now       func() time.Time

	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	expires time.Time
}

// NewVerifier creates a Verifier for cfg.ProjectID. A nil httpClient gets a
// default client with a 10s timeout.
func NewVerifier(cfg config.FirebaseConfig, httpClient HTTPClient, log zerolog.Logger) *Verifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Verifier{
		projectID: cfg.ProjectID,
		certsURL:  cfg.CertsURL,
		cacheTTL:  cfg.CacheTTL,
		http:      httpClient,
		log:       log,
		now:       time.Now,
	}
}

// Verify checks signature, issuer, audience and lifetime of idToken and
// returns its subject.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*ports.ExternalIdentity, error) {
	if v.projectID == "" {
		return nil, ErrNotConfigured
	}

	var claims idTokenClaims
	_, err := jwt.ParseWithClaims(idToken, &claims,
		func(t *jwt.Token) (any, error) {
			kid, _ := t.Header["kid"].(string)
			return v.key(ctx, kid)
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(issuerPrefix+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("verify id token: empty subject")
	}

	return &ports.ExternalIdentity{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}

// key returns the public key for kid, refreshing the certificate set when
// the cache has expired or does not know kid.
func (v *Verifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if kid == "" {
		return nil, ErrUnknownKeyID
	}

	v.mu.RLock()
	k, ok := v.keys[kid]
	fresh := v.now().Before(v.expires)
	v.mu.RUnlock()
	if ok && fresh {
		return k, nil
	}

	if err := v.refresh(ctx); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if k, ok := v.keys[kid]; ok {
		return k, nil
	}
	return nil, ErrUnknownKeyID
}

func (v *Verifier) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.certsURL, nil)
	if err != nil {
		return fmt.Errorf("build certs request: %w", err)
	}
	resp, err := v.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch signing certs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch signing certs: status %d", resp.StatusCode)
	}

	var pems map[string]string
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&pems); err != nil {
		return fmt.Errorf("decode signing certs: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(pems))
	for kid, certPEM := range pems {
		k, err := parseCertificateKey(certPEM)
		if err != nil {
			v.log.Warn().Err(err).Str("kid", kid).Msg("skipping unusable signing certificate")
			continue
		}
		keys[kid] = k
	}

	ttl := v.cacheTTL
	if maxAge, ok := parseMaxAge(resp.Header.Get("Cache-Control")); ok {
		ttl = maxAge
	}

	v.mu.Lock()
	v.keys = keys
	v.expires = v.now().Add(ttl)
	v.mu.Unlock()

	v.log.Debug().Int("keys", len(keys)).Dur("ttl", ttl).Msg("signing certificates refreshed")
	return nil
}

func parseCertificateKey(certPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(certPEM))
	if block == nil {
		return nil, errors.New("no PEM block")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse certificate: %w", err)
	}
	k, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("certificate key is not RSA")
	}
	return k, nil
}

// parseMaxAge extracts max-age from a Cache-Control header value.
func parseMaxAge(header string) (time.Duration, bool) {
	for _, directive := range strings.Split(header, ",") {
		name, value, found := strings.Cut(strings.TrimSpace(directive), "=")
		if !found || !strings.EqualFold(name, "max-age") {
			continue
		}
		secs, err := strconv.Atoi(value)
		if err != nil || secs <= 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	return 0, false
}
