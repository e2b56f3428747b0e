package handler

import (
	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// TokenHandler exposes account-number tokenization.
type TokenHandler struct {
	tokenizer ports.AccountTokenizer
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(tokenizer ports.AccountTokenizer) *TokenHandler {
	return &TokenHandler{tokenizer: tokenizer}
}

// TokenizeAccount handles POST /api/v1/tokens/account. The raw number is
// never stored or logged.
func (h *TokenHandler) TokenizeAccount(c *gin.Context) {
	if _, ok := callerIdentity(c); !ok {
		return
	}

	var req dto.TokenizeAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	token, err := h.tokenizer.Tokenize(req.AccountNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TokenizeAccountResponse{
		Token:  token,
		Masked: h.tokenizer.Mask(token),
	})
}
