package plaid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wallet-ledger/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.PlaidConfig{ClientID: "cid", Secret: "sec", Env: "sandbox", BaseURL: srv.URL, Timeout: 5 * time.Second}
	return NewClient(cfg, nil, zerolog.Nop())
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestCreateLinkToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/link/token/create", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "cid", r.Header.Get("PLAID-CLIENT-ID"))
		assert.Equal(t, "sec", r.Header.Get("PLAID-SECRET"))

		body := decodeBody(t, r)
		assert.Equal(t, "user-42", body["user"].(map[string]any)["client_user_id"])
		assert.Equal(t, []any{"auth", "transactions"}, body["products"])
		assert.Equal(t, []any{"US"}, body["country_codes"])
		assert.Equal(t, "en", body["language"])
		assert.Equal(t, "Finance App", body["client_name"])

		_, _ = w.Write([]byte(`{"link_token":"link-sandbox-123","expiration":"2024-05-20T14:00:00Z","request_id":"req-1"}`))
	})

	tok, err := client.CreateLinkToken(context.Background(), "user-42")
	require.NoError(t, err)
	assert.Equal(t, "link-sandbox-123", tok.LinkToken)
	assert.Equal(t, "req-1", tok.RequestID)
	assert.Equal(t, time.Date(2024, 5, 20, 14, 0, 0, 0, time.UTC), tok.Expiration.UTC())
}

func TestExchangePublicToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/item/public_token/exchange", r.URL.Path)
		assert.Equal(t, "public-sandbox-1", decodeBody(t, r)["public_token"])
		_, _ = w.Write([]byte(`{"access_token":"access-sandbox-1","item_id":"item-1","request_id":"req-2"}`))
	})

	access, err := client.ExchangePublicToken(context.Background(), "public-sandbox-1")
	require.NoError(t, err)
	assert.Equal(t, "access-sandbox-1", access.AccessToken)
	assert.Equal(t, "item-1", access.ItemID)
}

func TestExchangePublicToken_EmptyAccessToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"item_id":"item-1"}`))
	})

	_, err := client.ExchangePublicToken(context.Background(), "public")
	assert.ErrorContains(t, err, "empty access token")
}

func TestGetAccounts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/get", r.URL.Path)
		assert.Equal(t, "access-sandbox-1", decodeBody(t, r)["access_token"])
		_, _ = w.Write([]byte(`{"accounts":[
			{"account_id":"acc-1","name":"Plaid Checking","mask":"0000","type":"depository","subtype":"checking",
			 "balances":{"available":100,"current":110,"iso_currency_code":"USD"}},
			{"account_id":"acc-2","name":"Plaid Credit Card","mask":"3333","type":"credit","subtype":"credit card",
			 "balances":{"available":null,"current":410,"iso_currency_code":"USD"}}
		],"request_id":"req-3"}`))
	})

	accounts, err := client.GetAccounts(context.Background(), "access-sandbox-1")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "acc-1", accounts[0].AccountID)
	assert.Equal(t, "0000", accounts[0].Mask)
	require.NotNil(t, accounts[0].Available)
	assert.Equal(t, 100.0, *accounts[0].Available)
	assert.Equal(t, "USD", accounts[0].Currency)
	assert.Nil(t, accounts[1].Available)
	assert.Equal(t, 410.0, *accounts[1].Current)
}

func TestAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_type":"INVALID_INPUT","error_code":"INVALID_PUBLIC_TOKEN","error_message":"bad token","request_id":"req-4"}`))
	})

	_, err := client.ExchangePublicToken(context.Background(), "bad")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "INVALID_PUBLIC_TOKEN", apiErr.ErrorCode)
	assert.Contains(t, err.Error(), "bad token")
}

func TestAPIError_NonJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>upstream down</html>`))
	})

	_, err := client.GetAccounts(context.Background(), "tok")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Gateway", apiErr.ErrorMessage)
}

type failingHTTP struct{}

func (failingHTTP) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestTransportError(t *testing.T) {
	client := NewClient(config.PlaidConfig{Env: "sandbox"}, failingHTTP{}, zerolog.Nop())

	_, err := client.CreateLinkToken(context.Background(), "u")
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, "https://sandbox.plaid.com", client.baseURL)
}
