package handler

import (
	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PlaidHandler handles bank-linking endpoints.
type PlaidHandler struct {
	bankSvc ports.BankService
}

// NewPlaidHandler creates a new PlaidHandler.
func NewPlaidHandler(bankSvc ports.BankService) *PlaidHandler {
	return &PlaidHandler{bankSvc: bankSvc}
}

// CreateLinkToken handles POST /api/v1/plaid/create_link_token.
func (h *PlaidHandler) CreateLinkToken(c *gin.Context) {
	id, ok := callerIdentity(c)
	if !ok {
		return
	}

	token, err := h.bankSvc.CreateLinkToken(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, token)
}

// ExchangeToken handles POST /api/v1/plaid/exchange_token.
func (h *PlaidHandler) ExchangeToken(c *gin.Context) {
	id, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req dto.ExchangeTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	link, err := h.bankSvc.ExchangePublicToken(c.Request.Context(), id, req.PublicToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetAuditSubject(c, uuid.Nil, link.ID.String())
	response.OK(c, dto.ExchangeTokenResponse{Success: true, ItemID: link.ItemID})
}

// Accounts handles GET /api/v1/plaid/accounts.
func (h *PlaidHandler) Accounts(c *gin.Context) {
	id, ok := callerIdentity(c)
	if !ok {
		return
	}

	accounts, err := h.bankSvc.ListAccounts(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AccountsResponse{Accounts: accounts})
}
