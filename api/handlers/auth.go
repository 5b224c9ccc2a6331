package handlers

import (
	"net/http"
	"time"

	"github.com/OldStager01/f1-predictor/internal/auth"
	"github.com/OldStager01/f1-predictor/internal/logger"
	"github.com/OldStager01/f1-predictor/pkg/config"
	"github.com/OldStager01/f1-predictor/pkg/validation"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authConfig  config.AuthConfig
	authService *auth.Service
}

func NewAuthHandler(authConfig config.AuthConfig, authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authConfig:  authConfig,
		authService: authService,
	}
}

type TokenRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Token godoc
// @Summary Exchange an API key for a JWT
// @Description Verify the configured API key and mint a bearer token for the admin endpoints
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} TokenResponse "Signed token"
// @Failure 400 {object} map[string]string "Malformed request"
// @Failure 401 {object} map[string]string "Wrong API key"
// @Failure 503 {object} map[string]string "No API key configured"
// @Router /api/v1/auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := validation.ValidateAPIKey(req.APIKey); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if h.authConfig.APIKeyHash == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth not configured"})
		return
	}

	if !auth.CheckAPIKey(h.authConfig.APIKeyHash, req.APIKey) {
		logger.WithFields(map[string]interface{}{"ip": c.ClientIP()}).
			Warn("API key rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.authService.IssueToken("admin")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.authService.TokenDuration()),
	})
}
