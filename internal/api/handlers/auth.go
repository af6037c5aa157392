package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/catalog/internal/auth"
	"github.com/your-org/catalog/internal/storage"
	"github.com/your-org/catalog/pkg/dto"
)

// AuthHandler serves the mock session and user preferences, both persisted
// in the local store.
type AuthHandler struct {
	sessions *auth.Sessions
	local    *storage.LocalStore
}

func NewAuthHandler(sessions *auth.Sessions, local *storage.LocalStore) *AuthHandler {
	return &AuthHandler{sessions: sessions, local: local}
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.sessions.SignIn(req.User)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.SessionResponse{
		User:        sess.User,
		AccessToken: sess.AccessToken,
		ExpiresAt:   sess.ExpiresAt,
	})
}

func (h *AuthHandler) Session(c *gin.Context) {
	sess, ok, err := h.sessions.Current()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}

	c.JSON(http.StatusOK, dto.SessionResponse{
		User:        sess.User,
		AccessToken: sess.AccessToken,
		ExpiresAt:   sess.ExpiresAt,
	})
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.sessions.SignOut(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}

// DarkMode returns the persisted theme preference; absent means light.
func (h *AuthHandler) DarkMode(c *gin.Context) {
	data, err := h.local.GetKey(storage.DarkModeKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	enabled := false
	if data != nil {
		_ = json.Unmarshal(data, &enabled)
	}
	c.JSON(http.StatusOK, dto.DarkModeResponse{Enabled: enabled})
}

func (h *AuthHandler) SetDarkMode(c *gin.Context) {
	var req dto.DarkModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, _ := json.Marshal(req.Enabled)
	if err := h.local.SetKey(storage.DarkModeKey, data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.DarkModeResponse{Enabled: req.Enabled})
}
