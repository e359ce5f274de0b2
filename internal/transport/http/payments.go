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
	"github.com/edupay/payflow-backend/pkg/amount"
)

type PaymentHandler struct {
	Cfg      *config.Config
	Upstream *upstream.Client
}

func NewPaymentHandler(cfg *config.Config, client *upstream.Client) *PaymentHandler {
	return &PaymentHandler{Cfg: cfg, Upstream: client}
}

// Process records one payment transaction for the logged-in student.
//
// Two phases, deliberately non-atomic: the transaction insert is the
// success criterion; the charge status update afterwards is best
// effort. A payment whose charge update keeps failing leaves the
// charge stuck on pending even though the money is recorded — known
// gap, tracked in DESIGN.md.
func (h *PaymentHandler) Process(c *gin.Context) {
	if !h.Cfg.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "configuration error"})
		return
	}

	var req struct {
		Entity        string          `json:"entity"`
		Reference     string          `json:"reference"`
		Amount        json.RawMessage `json:"amount"`
		PaymentMethod string          `json:"paymentMethod"`
		ChargeID      string          `json:"chargeId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rawAmount := decodeAmount(req.Amount)
	if rawAmount == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount is required"})
		return
	}

	tokens := session.ReadTokens(c.Request)
	if tokens.AccessToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	userRaw, err := h.Upstream.GetUser(c.Request.Context(), tokens.AccessToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		return
	}
	var user struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(userRaw, &user); err != nil || user.ID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		return
	}

	value, err := amount.Parse(rawAmount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a positive number"})
		return
	}

	tx := &upstream.Transaction{
		UserID:        user.ID,
		Amount:        value,
		Entity:        req.Entity,
		Reference:     req.Reference,
		PaymentMethod: req.PaymentMethod,
		ChargeID:      req.ChargeID,
		Status:        "Sucesso",
	}
	row, err := h.Upstream.InsertTransaction(c.Request.Context(), tokens.AccessToken, tx)
	if err != nil {
		var apiErr *upstream.APIError
		if errors.As(err, &apiErr) {
			c.Data(apiErr.StatusCode, "application/json", apiErr.Body)
			return
		}
		log.Printf("[PAYMENTS] rid=%s Transaction insert failed: %v", requestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if req.ChargeID != "" {
		if err := h.Upstream.MarkChargePaid(c.Request.Context(), tokens.AccessToken, req.ChargeID); err != nil {
			// Payment is already recorded; the stuck charge is visible
			// in the dashboard and can be reconciled by hand.
			log.Printf("[PAYMENTS] rid=%s Charge %s status update failed after successful payment: %v", requestID(c), req.ChargeID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pagamento registado com sucesso",
		"data":    json.RawMessage(row),
	})
}

// decodeAmount tolerates both JSON forms the frontend has sent over
// time: a string ("150,00") and a bare number (150).
func decodeAmount(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
