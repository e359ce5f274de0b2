package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims mirrors the subset of upstream access-token claims the
// frontend cares about.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Info is the non-authoritative view of a session derived from the
// access token alone.
type Info struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Introspect decodes the upstream access token without verifying its
// signature. The upstream service is the sole authority on token
// validity; this exists only so the frontend can show session state
// without a round trip. Never use the result for authorization.
func Introspect(accessToken string) (*Info, error) {
	parser := jwt.NewParser()

	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return nil, err
	}

	info := &Info{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}
	if claims.ExpiresAt == nil {
		return nil, errors.New("token has no expiry claim")
	}
	info.ExpiresAt = claims.ExpiresAt.Time
	if time.Now().After(info.ExpiresAt) {
		return nil, errors.New("token expired")
	}
	return info, nil
}
