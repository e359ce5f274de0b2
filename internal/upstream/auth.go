package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// Session is the token bundle the upstream identity service returns
// from the password and refresh-token grants.
type Session struct {
	AccessToken  string          `json:"access_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	RefreshToken string          `json:"refresh_token"`
	User         json.RawMessage `json:"user"`
}

// SignupResult covers both signup outcomes: auto-confirmed signups come
// back with a full session, confirmation-pending signups with only the
// user object.
type SignupResult struct {
	Session *Session
	User    json.RawMessage
}

// PasswordLogin exchanges credentials for a session via the password
// grant. Upstream non-2xx responses surface as *APIError so the caller
// can relay status and body verbatim.
func (c *Client) PasswordLogin(ctx context.Context, email, password string) (*Session, error) {
	body, err := c.postJSON(ctx, "/auth/v1/token?grant_type=password", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %v", err)
	}
	return &sess, nil
}

// Signup registers a new user. Metadata lands in the upstream's
// user_metadata column.
func (c *Client) Signup(ctx context.Context, email, password string, metadata map[string]interface{}) (*SignupResult, error) {
	payload := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	if len(metadata) > 0 {
		payload["data"] = metadata
	}

	body, err := c.postJSON(ctx, "/auth/v1/signup", "", payload)
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode signup response: %v", err)
	}
	if sess.AccessToken != "" {
		return &SignupResult{Session: &sess, User: sess.User}, nil
	}
	// No tokens: the upstream wants email confirmation first and the
	// body is the bare user object.
	return &SignupResult{User: body}, nil
}

// Refresh exchanges a refresh token for a new session. Any failure,
// network or upstream, yields nil: a dead refresh token simply means
// "no valid session" and the caller proceeds anonymously.
func (c *Client) Refresh(ctx context.Context, refreshToken string) *Session {
	body, err := c.postJSON(ctx, "/auth/v1/token?grant_type=refresh_token", "", map[string]string{
		"refresh_token": refreshToken,
	})
	if err != nil {
		log.Printf("[UPSTREAM] Token refresh failed: %v", err)
		return nil
	}

	var sess Session
	if err := json.Unmarshal(body, &sess); err != nil {
		log.Printf("[UPSTREAM] Failed to decode refreshed session: %v", err)
		return nil
	}
	if sess.AccessToken == "" || sess.RefreshToken == "" {
		log.Printf("[UPSTREAM] Refresh response missing tokens")
		return nil
	}
	return &sess
}

// GetUser resolves an access token to its user via the upstream
// who-am-i endpoint. A non-2xx answer means the token is not a valid
// session.
func (c *Client) GetUser(ctx context.Context, accessToken string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v", err)
	}
	c.setAuthHeaders(req, accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}
