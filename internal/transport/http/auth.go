package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edupay/payflow-backend/internal/config"
	"github.com/edupay/payflow-backend/internal/session"
	"github.com/edupay/payflow-backend/internal/upstream"
)

type AuthHandler struct {
	Cfg      *config.Config
	Upstream *upstream.Client
}

func NewAuthHandler(cfg *config.Config, client *upstream.Client) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Upstream: client}
}

// Login performs the upstream password grant. Tokens travel back only
// as http-only cookies, never in the JSON body.
func (h *AuthHandler) Login(c *gin.Context) {
	if !h.Cfg.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "configuration error"})
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sess, err := h.Upstream.PasswordLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		relayAuthError(c, err)
		return
	}

	session.SetSessionCookies(c.Writer, sess.AccessToken, sess.RefreshToken, sess.ExpiresIn)
	c.JSON(http.StatusOK, gin.H{"user": sess.User})
}

// Register signs a new account up. When the upstream auto-confirms it
// returns tokens and the session cookies are set right away; otherwise
// the user still has to confirm by email.
func (h *AuthHandler) Register(c *gin.Context) {
	if !h.Cfg.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "configuration error"})
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Options  struct {
			Data map[string]interface{} `json:"data"`
		} `json:"options"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.Upstream.Signup(c.Request.Context(), req.Email, req.Password, req.Options.Data)
	if err != nil {
		relayAuthError(c, err)
		return
	}

	if result.Session != nil {
		session.SetSessionCookies(c.Writer, result.Session.AccessToken, result.Session.RefreshToken, result.Session.ExpiresIn)
		c.JSON(http.StatusOK, gin.H{"user": result.User})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    json.RawMessage(result.User),
		"message": "Registration successful. Check your email to confirm your account.",
	})
}

// Logout clears both session cookies. Deliberately stateless and
// idempotent: no upstream call, no dependency on a session existing.
func (h *AuthHandler) Logout(c *gin.Context) {
	session.ClearSessionCookies(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Session reports whether the browser currently holds a live-looking
// access token. Informational only: claims are decoded without
// signature verification and the upstream remains the authority.
func (h *AuthHandler) Session(c *gin.Context) {
	tokens := session.ReadTokens(c.Request)
	if tokens.AccessToken == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	info, err := session.Introspect(tokens.AccessToken)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "session": info})
}

// relayAuthError passes upstream error responses through verbatim and
// flattens everything else (network, encoding) into a 500.
func relayAuthError(c *gin.Context, err error) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		c.Data(apiErr.StatusCode, "application/json", apiErr.Body)
		return
	}
	log.Printf("[AUTH] rid=%s Upstream call failed: %v", requestID(c), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
