package handler

import (
	"errors"
	"fmt"
	"net/http"

	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// bindError maps a binding failure to the client-facing error.
func bindError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperror.ErrPayloadTooLarge()
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "account_token" {
			return apperror.ErrInvalidAccountReference()
		}
		return apperror.Validation(fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
	}

	return apperror.Validation("malformed request body")
}

// callerIdentity returns the authenticated caller or writes a 401.
func callerIdentity(c *gin.Context) (domain.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
	}
	return id, ok
}

// walletIDParam parses :id. A malformed id cannot name a wallet, so it is a 404.
func walletIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrWalletNotFound())
		return uuid.Nil, false
	}
	return id, true
}
