package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cardledger/backend/internal/auth"
	"github.com/cardledger/backend/internal/metrics"
)

type AuthHandler struct {
	authenticator auth.Authenticator
	sessions      *auth.SessionStore
}

func NewAuthHandler(authenticator auth.Authenticator, sessions *auth.SessionStore) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		sessions:      sessions,
	}
}

type createSessionRequest struct {
	Passphrase string `json:"passphrase" binding:"required"`
}

type createSessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateSession exchanges the shared passphrase for a session token.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passphrase is required"})
		return
	}

	if !h.authenticator.Authenticate(req.Passphrase) {
		metrics.AuthAttemptsTotal.WithLabelValues("failure").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid passphrase"})
		return
	}

	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
	token, expiresAt := h.sessions.Issue()
	c.JSON(http.StatusOK, createSessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
