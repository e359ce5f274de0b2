// Package upstream talks to the managed backend-as-a-service that owns
// identity and the REST interface over the database. Nothing here
// retries: the upstream's answer, good or bad, is the answer.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a thin HTTP client for the upstream auth and REST surfaces.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

func NewClient(baseURL, anonKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		http: &http.Client{
			Timeout: timeout,
			// Redirects are returned to the caller, not followed.
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// BaseURL returns the upstream base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// AnonKey returns the static public API key the upstream requires on
// every call.
func (c *Client) AnonKey() string { return c.anonKey }

// Do forwards a fully prepared request through the shared HTTP client.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.http.Do(req)
}

// APIError carries an upstream non-2xx response verbatim so handlers
// can pass the status and body through to the browser unmodified.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Body)
}

// postJSON issues a POST with the public key plus an optional bearer
// token and returns the response body. Non-2xx becomes an *APIError.
func (c *Client) postJSON(ctx context.Context, path string, bearer string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(req, bearer)

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
	return respBody, nil
}

// setAuthHeaders applies the upstream credential convention: the public
// key always travels in the apikey header, and the bearer slot holds
// the user's access token when one exists, falling back to the public
// key itself (which the upstream treats as anonymous).
func (c *Client) setAuthHeaders(req *http.Request, bearer string) {
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
}
