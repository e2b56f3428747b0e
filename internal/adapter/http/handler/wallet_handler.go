package handler

import (
	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles wallet and posting endpoints.
type WalletHandler struct {
	ledgerSvc ports.LedgerService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledgerSvc ports.LedgerService) *WalletHandler {
	return &WalletHandler{ledgerSvc: ledgerSvc}
}

// Create handles POST /api/v1/wallets.
func (h *WalletHandler) Create(c *gin.Context) {
	id, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.ledgerSvc.CreateWallet(c.Request.Context(), id, ports.CreateWalletRequest{
		OwnerID:       req.UserID,
		Name:          req.Name,
		Currency:      req.Currency,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetAuditSubject(c, uuid.Nil, wallet.ID.String())
	response.Created(c, dto.NewWalletResponse(wallet))
}

// ListByUser handles GET /api/v1/wallets/user/:userId.
func (h *WalletHandler) ListByUser(c *gin.Context) {
	id, ok := callerIdentity(c)
	if !ok {
		return
	}

	wallets, err := h.ledgerSvc.ListWallets(c.Request.Context(), id, c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWalletListResponse(wallets))
}

// Get handles GET /api/v1/wallets/:id.
func (h *WalletHandler) Get(c *gin.Context) {
	id, ok := callerIdentity(c)
	if !ok {
		return
	}
	walletID, ok := walletIDParam(c)
	if !ok {
		return
	}

	wallet, err := h.ledgerSvc.GetWallet(c.Request.Context(), id, walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWalletResponse(wallet))
}

// Update handles PUT /api/v1/wallets/:id.
func (h *WalletHandler) Update(c *gin.Context) {
	id, ok := callerIdentity(c)
	if !ok {
		return
	}
	walletID, ok := walletIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.ledgerSvc.UpdateWallet(c.Request.Context(), id, walletID, ports.UpdateWalletRequest{
		Name:     req.Name,
		Currency: req.Currency,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWalletResponse(wallet))
}

// Delete handles DELETE /api/v1/wallets/:id.
func (h *WalletHandler) Delete(c *gin.Context) {
	id, ok := callerIdentity(c)
	if !ok {
		return
	}
	walletID, ok := walletIDParam(c)
	if !ok {
		return
	}

	if err := h.ledgerSvc.DeleteWallet(c.Request.Context(), id, walletID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Wallet deleted successfully")
}

// PostTransaction handles POST /api/v1/wallets/:id/transactions.
// Supports an optional Idempotency-Key header.
func (h *WalletHandler) PostTransaction(c *gin.Context) {
	id, ok := callerIdentity(c)
	if !ok {
		return
	}
	walletID, ok := walletIDParam(c)
	if !ok {
		return
	}

	var hdr dto.IdempotencyHeader
	if err := c.ShouldBindHeader(&hdr); err != nil {
		response.Error(c, apperror.Validation("Idempotency-Key must be at most 128 characters of [A-Za-z0-9_.-]"))
		return
	}

	var req dto.PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.ledgerSvc.PostTransaction(c.Request.Context(), id, walletID, ports.PostTransactionRequest{
		Type:           domain.TransactionType(req.Type),
		Amount:         dto.AmountText(req.Amount),
		Description:    req.Description,
		Category:       req.Category,
		IdempotencyKey: hdr.Key,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWalletResponse(wallet))
}

// Summary handles GET /api/v1/wallets/:id/transactions?period=.
func (h *WalletHandler) Summary(c *gin.Context) {
	id, ok := callerIdentity(c)
	if !ok {
		return
	}
	walletID, ok := walletIDParam(c)
	if !ok {
		return
	}

	summary, err := h.ledgerSvc.Summarize(c.Request.Context(), id, walletID, c.Query("period"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewSummaryResponse(summary))
}
