// Package device gives every browser a stable, anonymous device id so notes
// stay local to the device that wrote them.
//
// HOW IT WORKS:
// The first request without a valid cookie gets a fresh id (an xid). The
// id is signed into a JWT and stored in an HttpOnly cookie. Later requests
// present the cookie, the signature is checked, and the id is placed in the
// request context. There are no accounts and no login: the id identifies a
// device, not a person, and losing the cookie means starting a new device.
package device

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const (
	issuer   = "profile-explorer"
	audience = "device"

	// TokenLifetime is how long a device cookie stays valid.
	TokenLifetime = 365 * 24 * time.Hour
)

// Tokens signs and verifies device tokens with an HMAC secret.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

// NewTokens returns a signer for secret, which must be at least 16 bytes.
func NewTokens(secret string) (*Tokens, error) {
	if len(secret) < 16 {
		return nil, errors.New("device: secret must be at least 16 characters")
	}
	return &Tokens{secret: []byte(secret), now: time.Now}, nil
}

// NewID returns a fresh device id.
func NewID() string {
	return xid.New().String()
}

// Issue signs a token for deviceID valid for TokenLifetime.
func (t *Tokens) Issue(deviceID string) (string, error) {
	return t.issue(deviceID, TokenLifetime)
}

func (t *Tokens) issue(deviceID string, lifetime time.Duration) (string, error) {
	now := t.now()
	c := jwt.RegisteredClaims{
		Subject:   deviceID,
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("device: signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, issuer, audience and expiry of a token and
// returns the device id it carries.
func (t *Tokens) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", fmt.Errorf("device: invalid token: %w", err)
	}

	c, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || c.Subject == "" {
		return "", errors.New("device: token has no subject")
	}
	if _, err := xid.FromString(c.Subject); err != nil {
		return "", fmt.Errorf("device: malformed device id: %w", err)
	}
	return c.Subject, nil
}
