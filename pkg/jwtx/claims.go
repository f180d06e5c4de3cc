package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTicketTTL bounds how long a ticket is accepted even while its
// session is still current.
const DefaultTicketTTL = 12 * time.Hour

var (
	ErrMalformed   = errors.New("jwtx: malformed ticket")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: ticket expired")
	ErrNotYetValid = errors.New("jwtx: ticket not yet valid")
	ErrMissingSID  = errors.New("jwtx: missing session id")
)

// Claims are the session ticket claims. The ticket only proves that the
// bearer was handed the session identified by SID; role and permissions are
// always re-read from the session store.
type Claims struct {
	jwt.RegisteredClaims

	// SID is the session ID the ticket is bound to.
	SID string `json:"sid"`

	// Role at issue time, informational only.
	Role string `json:"role,omitempty"`
}

// NewClaims builds claims for identity subject bound to session sid.
func NewClaims(issuer, subject, sid, role string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		SID:  sid,
		Role: role,
	}
}

// ValidateIssuer checks the issuer when expected is set.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry checks exp and nbf against now with the given leeway.
func (c *Claims) ValidateExpiry(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
