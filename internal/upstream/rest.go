package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

// Transaction is a recorded payment event, as stored in the upstream
// transactions table.
type Transaction struct {
	UserID        string          `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Entity        string          `json:"entity,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	ChargeID      string          `json:"charge_id,omitempty"`
	Status        string          `json:"status"`
}

// InsertTransaction inserts one transaction row through the upstream
// REST interface and returns the stored representation. Row-level
// security runs under the caller's access token.
func (c *Client) InsertTransaction(ctx context.Context, accessToken string, tx *Transaction) (json.RawMessage, error) {
	body, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	c.setAuthHeaders(req, accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: respBody}
	}

	// return=representation answers with an array of inserted rows.
	var rows []json.RawMessage
	if err := json.Unmarshal(respBody, &rows); err == nil && len(rows) > 0 {
		return rows[0], nil
	}
	return respBody, nil
}

// MarkChargePaid flips a charge row to paid. Callers treat a failure
// here as loggable, not fatal: the payment row is already recorded.
func (c *Client) MarkChargePaid(ctx context.Context, accessToken, chargeID string) error {
	body, err := json.Marshal(map[string]string{"status": "Pago"})
	if err != nil {
		return fmt.Errorf("failed to encode charge update: %v", err)
	}

	// The ID lands in a query filter; escape it so a crafted value
	// cannot smuggle extra filter clauses.
	target := c.baseURL + "/rest/v1/charges?id=eq." + url.QueryEscape(chargeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(req, accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: respBody}
	}
	return nil
}
