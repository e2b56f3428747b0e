package handler

import (
	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler handles profile and session endpoints.
type UserHandler struct {
	userSvc ports.UserService
	authSvc ports.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userSvc ports.UserService, authSvc ports.AuthService) *UserHandler {
	return &UserHandler{userSvc: userSvc, authSvc: authSvc}
}

// Upsert handles POST /api/v1/users.
func (h *UserHandler) Upsert(c *gin.Context) {
	id, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	user, err := h.userSvc.UpsertProfile(c.Request.Context(), id, ports.ProfileRequest{
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, user)
}

// GetByEmail handles GET /api/v1/users/:email.
func (h *UserHandler) GetByEmail(c *gin.Context) {
	id, ok := callerIdentity(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetByEmail(c.Request.Context(), id, c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, user)
}

// Logout handles POST /api/v1/users/logout.
func (h *UserHandler) Logout(c *gin.Context) {
	id, ok := callerIdentity(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Logged out successfully")
}

// PasswordExpiration handles GET /api/v1/users/password/expiration.
func (h *UserHandler) PasswordExpiration(c *gin.Context) {
	id, ok := callerIdentity(c)
	if !ok {
		return
	}

	status, err := h.userSvc.PasswordExpiration(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, status)
}
