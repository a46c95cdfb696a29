// internal/interfaces/http/handlers/session.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal-gateway/internal/session"
)

// SessionHandler handles login, logout and operator state endpoints
type SessionHandler struct {
	manager *session.Manager
	logger  *logrus.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(manager *session.Manager, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		logger:  logger,
	}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /session/login
func (h *SessionHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.manager.Login(c.Request.Context(), req.Username, req.Password); err != nil {
		respondError(c, err)
		return
	}

	principal, _ := h.manager.Principal()
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    principal,
	})
}

// Logout handles POST /session/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.manager.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logout successful",
	})
}

// Me handles GET /session/me
func (h *SessionHandler) Me(c *gin.Context) {
	principal, ok := h.manager.Principal()
	if !ok {
		// Session restored from the store but principal not loaded yet
		if err := h.manager.RefreshPrincipal(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		principal, _ = h.manager.Principal()
	}

	c.JSON(http.StatusOK, gin.H{
		"data": principal,
	})
}

// GetTheme handles GET /session/theme
func (h *SessionHandler) GetTheme(c *gin.Context) {
	theme, err := h.manager.Theme(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if theme == "" {
		theme = "light"
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"theme": theme},
	})
}

// ThemeRequest is the theme update payload
type ThemeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=light dark"`
}

// SetTheme handles PUT /session/theme
func (h *SessionHandler) SetTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.manager.SetTheme(c.Request.Context(), req.Theme); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Theme updated successfully",
		"data":    gin.H{"theme": req.Theme},
	})
}
