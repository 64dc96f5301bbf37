package session

import (
	"fmt"
	"time"

	"github.com/desertthunder/sentix/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of access token claims the client displays.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasExpiry reports whether the token carried an exp claim.
func (c Claims) HasExpiry() bool {
	return !c.ExpiresAt.IsZero()
}

// Expired reports whether the token had expired at now. Tokens without exp never expire.
func (c Claims) Expired(now time.Time) bool {
	return c.HasExpiry() && !now.Before(c.ExpiresAt)
}

// Remaining returns the time left before expiry, floored at zero.
func (c Claims) Remaining(now time.Time) time.Duration {
	if !c.HasExpiry() || c.Expired(now) {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

// InspectToken decodes the registered claims of a JWT without verifying its signature.
//
// The backend is the authority on validity; this is for display only.
func InspectToken(token string) (Claims, error) {
	var registered jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &registered); err != nil {
		return Claims{}, fmt.Errorf("%w: malformed token: %v", shared.ErrInvalidInput, err)
	}

	claims := Claims{Subject: registered.Subject}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	return claims, nil
}
