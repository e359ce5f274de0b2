package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not found", name)
	return nil
}

func TestSetSessionCookiesAttributes(t *testing.T) {
	w := httptest.NewRecorder()
	SetSessionCookies(w, "access-val", "refresh-val", 3600)

	resp := w.Result()
	require.Len(t, resp.Cookies(), 2)

	access := findCookie(t, resp, AccessCookieName)
	assert.Equal(t, "access-val", access.Value)
	assert.Equal(t, 3600, access.MaxAge)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)
	assert.Equal(t, "/", access.Path)

	refresh := findCookie(t, resp, RefreshCookieName)
	assert.Equal(t, "refresh-val", refresh.Value)
	assert.Equal(t, RefreshCookieMaxAge, refresh.MaxAge)
	assert.True(t, refresh.HttpOnly)
	assert.True(t, refresh.Secure)
	assert.Equal(t, http.SameSiteStrictMode, refresh.SameSite)
}

func TestClearSessionCookies(t *testing.T) {
	w := httptest.NewRecorder()
	ClearSessionCookies(w)

	resp := w.Result()
	require.Len(t, resp.Cookies(), 2)
	for _, c := range resp.Cookies() {
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestReadTokens(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "at"})
	r.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "rt"})

	tokens := ReadTokens(r)
	assert.Equal(t, "at", tokens.AccessToken)
	assert.Equal(t, "rt", tokens.RefreshToken)
}

func TestReadTokensMissingCookies(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	tokens := ReadTokens(r)
	assert.Empty(t, tokens.AccessToken)
	assert.Empty(t, tokens.RefreshToken)
}
