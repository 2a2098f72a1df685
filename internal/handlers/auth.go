package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marco0antonio0/back-makeapi/internal/middleware"
	"github.com/marco0antonio0/back-makeapi/internal/services"
)

// AuthHandler handles account routes.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates an account and returns it with a bearer token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	raw := middleware.BearerToken(c)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.auth.UserFromToken(c.Request.Context(), raw)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
