package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edupay/payflow-backend/internal/config"
	"github.com/edupay/payflow-backend/internal/upstream"
)

type StudentHandler struct {
	Cfg      *config.Config
	Upstream *upstream.Client
}

func NewStudentHandler(cfg *config.Config, client *upstream.Client) *StudentHandler {
	return &StudentHandler{Cfg: cfg, Upstream: client}
}

// Create registers a student account on behalf of the secretariat.
// This signs the student up upstream; it never touches the caller's
// own session cookies.
func (h *StudentHandler) Create(c *gin.Context) {
	if !h.Cfg.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "configuration error"})
		return
	}

	var req struct {
		Name         string                 `json:"name"`
		Email        string                 `json:"email"`
		Password     string                 `json:"password"`
		UserMetadata map[string]interface{} `json:"user_metadata"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	metadata := req.UserMetadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	if req.Name != "" {
		metadata["name"] = req.Name
	}

	result, err := h.Upstream.Signup(c.Request.Context(), req.Email, req.Password, metadata)
	if err != nil {
		relayAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Student account created successfully",
		"user":    json.RawMessage(result.User),
	})
}
