package session

import (
	"net/http"
)

const (
	AccessCookieName  = "sb-access-token"
	RefreshCookieName = "sb-refresh-token"

	// RefreshCookieMaxAge is fixed at 30 days regardless of the access
	// token lifetime reported by the upstream.
	RefreshCookieMaxAge = 30 * 24 * 60 * 60
)

// Tokens holds the two session credentials read from a request. Empty
// fields mean the corresponding cookie is absent or blank.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

func newCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

// SetSessionCookies writes the access/refresh cookie pair. The access
// cookie expires with the token (expiresIn seconds); the refresh cookie
// always gets the fixed 30-day lifetime.
func SetSessionCookies(w http.ResponseWriter, accessToken, refreshToken string, expiresIn int) {
	http.SetCookie(w, newCookie(AccessCookieName, accessToken, expiresIn))
	http.SetCookie(w, newCookie(RefreshCookieName, refreshToken, RefreshCookieMaxAge))
}

// ClearSessionCookies overwrites both cookies with MaxAge=-1 so the
// browser drops them. Safe to call with no session present.
func ClearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, newCookie(AccessCookieName, "", -1))
	http.SetCookie(w, newCookie(RefreshCookieName, "", -1))
}

// ReadTokens extracts the session tokens from the request cookies.
// Malformed or missing cookies yield empty strings, never an error.
func ReadTokens(r *http.Request) Tokens {
	var t Tokens
	if c, err := r.Cookie(AccessCookieName); err == nil {
		t.AccessToken = c.Value
	}
	if c, err := r.Cookie(RefreshCookieName); err == nil {
		t.RefreshToken = c.Value
	}
	return t
}
