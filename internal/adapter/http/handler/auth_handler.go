package handler

import (
	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles sign-up and sign-in endpoints.
type AuthHandler struct {
	authSvc ports.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc ports.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	session, err := h.authSvc.Register(c.Request.Context(), ports.RegisterRequest{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetAuditSubject(c, session.User.ID, session.User.ID.String())
	response.Created(c, dto.NewSessionResponse(session))
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	session, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetAuditSubject(c, session.User.ID, "")
	response.OK(c, dto.NewSessionResponse(session))
}

// Google handles POST /api/v1/auth/google.
func (h *AuthHandler) Google(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	session, err := h.authSvc.LoginWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetAuditSubject(c, session.User.ID, "")
	response.OK(c, dto.NewSessionResponse(session))
}
