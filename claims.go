package accounts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload carried by a session token. The subject is
// the only assertion the service makes about the bearer.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// UserID returns the user identifier the token was bound to.
func (c *SessionClaims) UserID() string {
	return c.Subject
}

// Expires returns the expiration time, or the zero time when the token
// carries no exp claim.
func (c *SessionClaims) Expires() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// IssuedAtTime returns the iat claim, or the zero time when absent.
func (c *SessionClaims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}
