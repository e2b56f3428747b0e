// Package realtime pushes wallet balance changes to the owner's open
// websocket connections.
package realtime

import (
	"encoding/json"
	"sync"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type balanceMessage struct {
	Type             string      `json:"type"`
	WalletID         uuid.UUID   `json:"wallet_id"`
	Balance          json.Number `json:"balance"`
	Currency         string      `json:"currency"`
	TransactionCount int         `json:"transaction_count"`
}

// Hub tracks connected clients per user. It implements ports.BalancePublisher.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	log     zerolog.Logger
}

// NewHub creates an empty Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		log:     log,
	}
}

func (h *Hub) Register(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

func (h *Hub) Unregister(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		return
	}
	delete(h.clients[userID], client)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// Connections returns how many clients userID has open.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// PublishBalance sends update to every connection of userID. Clients whose
// buffer is full miss the message.
func (h *Hub) PublishBalance(userID string, update ports.BalanceUpdate) {
	payload, err := json.Marshal(balanceMessage{
		Type:             "balance",
		WalletID:         update.WalletID,
		Balance:          domain.MoneyJSON(update.Balance),
		Currency:         update.Currency,
		TransactionCount: update.TransactionCount,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("encode balance update")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			h.log.Debug().Str("user_id", userID).Msg("websocket client buffer full, dropping update")
		}
	}
}
