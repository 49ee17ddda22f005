package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authService "github.com/samirwankhede/hotel-insights/internal/service/auth"
)

// LoginService authenticates admin users.
type LoginService interface {
	Login(ctx context.Context, req authService.LoginRequest) (*authService.LoginResponse, error)
}

type AuthHandler struct {
	log *zap.Logger
	svc LoginService
}

func NewAuthHandler(log *zap.Logger, svc LoginService) *AuthHandler {
	return &AuthHandler{log: log, svc: svc}
}

func (h *AuthHandler) Register(r *gin.Engine) {
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", h.login)
		auth.POST("/logout", h.logout)
	}
}

func (h *AuthHandler) login(c *gin.Context) {
	var req authService.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, authService.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		h.log.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) logout(c *gin.Context) {
	// Tokens are stateless; the client drops its copy.
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
