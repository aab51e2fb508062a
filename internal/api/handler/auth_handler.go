package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/onoyima/project-exeat-sub001/internal/dto"
	"github.com/onoyima/project-exeat-sub001/internal/service"
	"github.com/onoyima/project-exeat-sub001/pkg/response"
)

// AuthHandler serves the auth endpoints.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login signs in against the exeat API.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeParamError, "login and password are required")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout ends the session and revokes the portal token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), snap, claims.ID, claims.RemainingTTL()); err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, nil)
}

// Me returns the signed-in user.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	response.OK(c, h.authSvc.Me(snap))
}
