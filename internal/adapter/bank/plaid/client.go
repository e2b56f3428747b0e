// Package plaid is a thin REST client for the Plaid endpoints the bank-link
// flow needs. It implements ports.BankAggregator.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

const (
	clientName = "Finance App"
	language   = "en"

	maxResponseBytes = 1 << 20
)

var (
	linkProducts = []string{"auth", "transactions"}
	linkCountry  = []string{"US"}
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to one Plaid environment.
type Client struct {
	baseURL  string
	clientID string
	secret   string
	http     HTTPClient
	log      zerolog.Logger
}

// NewClient creates a Plaid client. A nil httpClient gets a default one
// with cfg.Timeout.
func NewClient(cfg config.PlaidConfig, httpClient HTTPClient, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:  cfg.URL(),
		clientID: cfg.ClientID,
		secret:   cfg.Secret,
		http:     httpClient,
		log:      log,
	}
}

// APIError is the error body Plaid returns with non-2xx responses.
type APIError struct {
	StatusCode     int    `json:"-"`
	ErrorType      string `json:"error_type"`
	ErrorCode      string `json:"error_code"`
	ErrorMessage   string `json:"error_message"`
	DisplayMessage string `json:"display_message"`
	RequestID      string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("plaid %d %s/%s: %s", e.StatusCode, e.ErrorType, e.ErrorCode, e.ErrorMessage)
}

type linkTokenUser struct {
	ClientUserID string `json:"client_user_id"`
}

type linkTokenCreateRequest struct {
	ClientName   string        `json:"client_name"`
	User         linkTokenUser `json:"user"`
	Products     []string      `json:"products"`
	CountryCodes []string      `json:"country_codes"`
	Language     string        `json:"language"`
}

type linkTokenCreateResponse struct {
	LinkToken  string    `json:"link_token"`
	Expiration time.Time `json:"expiration"`
	RequestID  string    `json:"request_id"`
}

// CreateLinkToken calls /link/token/create for clientUserID.
func (c *Client) CreateLinkToken(ctx context.Context, clientUserID string) (*ports.LinkToken, error) {
	req := linkTokenCreateRequest{
		ClientName:   clientName,
		User:         linkTokenUser{ClientUserID: clientUserID},
		Products:     linkProducts,
		CountryCodes: linkCountry,
		Language:     language,
	}

	var resp linkTokenCreateResponse
	if err := c.post(ctx, "/link/token/create", req, &resp); err != nil {
		return nil, err
	}
	return &ports.LinkToken{
		LinkToken:  resp.LinkToken,
		Expiration: resp.Expiration,
		RequestID:  resp.RequestID,
	}, nil
}

type publicTokenExchangeRequest struct {
	PublicToken string `json:"public_token"`
}

type publicTokenExchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id"`
}

// ExchangePublicToken calls /item/public_token/exchange.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ports.ItemAccess, error) {
	var resp publicTokenExchangeResponse
	if err := c.post(ctx, "/item/public_token/exchange", publicTokenExchangeRequest{PublicToken: publicToken}, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("plaid exchange: empty access token (request %s)", resp.RequestID)
	}
	return &ports.ItemAccess{AccessToken: resp.AccessToken, ItemID: resp.ItemID}, nil
}

type accountsGetRequest struct {
	AccessToken string `json:"access_token"`
}

type accountBalances struct {
	Available       *float64 `json:"available"`
	Current         *float64 `json:"current"`
	ISOCurrencyCode string   `json:"iso_currency_code"`
}

type account struct {
	AccountID string          `json:"account_id"`
	Balances  accountBalances `json:"balances"`
	Mask      string          `json:"mask"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Subtype   string          `json:"subtype"`
}

type accountsGetResponse struct {
	Accounts  []account `json:"accounts"`
	RequestID string    `json:"request_id"`
}

// GetAccounts calls /accounts/get for the item behind accessToken.
func (c *Client) GetAccounts(ctx context.Context, accessToken string) ([]domain.BankAccount, error) {
	var resp accountsGetResponse
	if err := c.post(ctx, "/accounts/get", accountsGetRequest{AccessToken: accessToken}, &resp); err != nil {
		return nil, err
	}

	accounts := make([]domain.BankAccount, 0, len(resp.Accounts))
	for _, a := range resp.Accounts {
		accounts = append(accounts, domain.BankAccount{
			AccountID: a.AccountID,
			Name:      a.Name,
			Mask:      a.Mask,
			Type:      a.Type,
			Subtype:   a.Subtype,
			Available: a.Balances.Available,
			Current:   a.Balances.Current,
			Currency:  a.Balances.ISOCurrencyCode,
		})
	}
	return accounts, nil
}

// post sends body as JSON with the client credentials in headers and decodes
// a 2xx response into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("plaid %s: encode request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("plaid %s: build request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("PLAID-CLIENT-ID", c.clientID)
	req.Header.Set("PLAID-SECRET", c.secret)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("plaid %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("plaid %s: read response: %w", path, err)
	}

	c.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("plaid call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(raw, apiErr) != nil || apiErr.ErrorMessage == "" {
			apiErr.ErrorMessage = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("plaid %s: decode response: %w", path, err)
	}
	return nil
}
