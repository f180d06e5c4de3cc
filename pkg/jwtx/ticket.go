package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aussiebroadwan/propdesk/pkg/cryptox"
)

// Tickets signs and verifies session tickets with a single Ed25519 key.
type Tickets struct {
	key    ed25519.PrivateKey
	pub    ed25519.PublicKey
	issuer string
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
}

// NewTickets builds a signer/verifier from a PKCS8 PEM Ed25519 key.
func NewTickets(pemKey []byte, issuer string, ttl time.Duration) (*Tickets, error) {
	key, err := cryptox.ParseEd25519Key(pemKey)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTicketTTL
	}

	return &Tickets{
		key:    key,
		pub:    key.Public().(ed25519.PublicKey),
		issuer: issuer,
		ttl:    ttl,
		leeway: 30 * time.Second,
		now:    time.Now,
	}, nil
}

// LoadTickets reads the signing key from keyFile, generating it on first use.
func LoadTickets(keyFile, issuer string, ttl time.Duration) (*Tickets, error) {
	pemKey, err := cryptox.LoadOrCreateFile(keyFile, cryptox.GenerateEd25519Key)
	if err != nil {
		return nil, fmt.Errorf("jwtx: load ticket key: %w", err)
	}
	return NewTickets(pemKey, issuer, ttl)
}

// TTL is the lifetime of issued tickets.
func (t *Tickets) TTL() time.Duration { return t.ttl }

// Issue signs a ticket for identity subject bound to session sid.
func (t *Tickets) Issue(subject, sid, role string) (string, error) {
	if sid == "" {
		return "", ErrMissingSID
	}

	claims := NewClaims(t.issuer, subject, sid, role, t.ttl, t.now().UTC())
	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(t.key)
}

// Verify parses and validates a ticket and returns its claims.
func (t *Tickets) Verify(raw string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithoutClaimsValidation(), // exp/nbf are checked below with our clock
	)

	var claims Claims
	token, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return t.pub, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return Claims{}, ErrInvalidSig
		default:
			return Claims{}, fmt.Errorf("jwtx: parse ticket: %w", err)
		}
	}
	if !token.Valid {
		return Claims{}, ErrInvalidSig
	}

	if err := claims.ValidateIssuer(t.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(t.now().UTC(), t.leeway); err != nil {
		return Claims{}, err
	}
	if claims.SID == "" {
		return Claims{}, ErrMissingSID
	}

	return claims, nil
}
