package http

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edupay/payflow-backend/internal/config"
	"github.com/edupay/payflow-backend/internal/session"
	"github.com/edupay/payflow-backend/internal/upstream"
)

// ProxyHandler relays arbitrary REST calls to the upstream service,
// injecting credentials and transparently rotating an expired session
// when the browser still holds a refresh token.
type ProxyHandler struct {
	Cfg      *config.Config
	Upstream *upstream.Client
}

func NewProxyHandler(cfg *config.Config, client *upstream.Client) *ProxyHandler {
	return &ProxyHandler{Cfg: cfg, Upstream: client}
}

// Relay handles ANY /api/proxy/*path. Preflight OPTIONS never reaches
// this handler; the CORS middleware answers it first.
func (h *ProxyHandler) Relay(c *gin.Context) {
	if !h.Cfg.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "configuration error"})
		return
	}

	tokens := session.ReadTokens(c.Request)

	// No access token but a refresh token: one refresh attempt, never
	// retried. Success marks the rotation so fresh cookies ride along
	// on the response; failure just means we forward anonymously and
	// let the upstream answer 401 where auth was required.
	bearer := tokens.AccessToken
	var rotated *upstream.Session
	if bearer == "" && tokens.RefreshToken != "" {
		if sess := h.Upstream.Refresh(c.Request.Context(), tokens.RefreshToken); sess != nil {
			bearer = sess.AccessToken
			rotated = sess
		}
	}

	target := h.Upstream.BaseURL() + c.Param("path")
	if c.Request.URL.RawQuery != "" {
		target += "?" + c.Request.URL.RawQuery
	}

	var body io.Reader
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		body = c.Request.Body
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, target, body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	copyRequestHeaders(req.Header, c.Request.Header)
	req.Header.Set("apikey", h.Upstream.AnonKey())
	if bearer == "" {
		// The public key doubles as an anonymous pseudo-bearer.
		bearer = h.Upstream.AnonKey()
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := h.Upstream.Do(req)
	if err != nil {
		log.Printf("[PROXY] rid=%s Forward to %s failed: %v", requestID(c), target, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer resp.Body.Close()

	copyResponseHeaders(c.Writer.Header(), resp.Header)
	if rotated != nil {
		session.SetSessionCookies(c.Writer, rotated.AccessToken, rotated.RefreshToken, rotated.ExpiresIn)
	}
	c.Writer.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		log.Printf("[PROXY] rid=%s Failed to relay response body: %v", requestID(c), err)
	}
}

// copyRequestHeaders forwards the inbound headers minus Host, Cookie
// (session cookies must never leak upstream) and hop-by-hop headers.
// Accept-Encoding stays behind too: the transport must negotiate
// compression itself so it transparently decompresses the upstream
// body. A forwarded browser value would leave the body gzipped while
// the relay strips Content-Encoding, corrupting the response.
func copyRequestHeaders(dst, src http.Header) {
	for k, vv := range src {
		switch strings.ToLower(k) {
		case "host", "cookie", "connection", "keep-alive",
			"transfer-encoding", "te", "trailer", "upgrade",
			"accept-encoding":
			continue
		}
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}

// copyResponseHeaders relays the upstream response headers, dropping
// the transport framing headers the rewrite invalidates; the HTTP
// layer recomputes those.
func copyResponseHeaders(dst, src http.Header) {
	for k, vv := range src {
		switch strings.ToLower(k) {
		case "content-encoding", "content-length", "transfer-encoding",
			"connection", "keep-alive":
			continue
		}
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}
