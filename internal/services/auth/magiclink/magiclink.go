// Package magiclink issues and verifies the signed one-time login tokens
// mailed to readers.
package magiclink

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/talevortex/internal/platform/errors"
)

const (
	// DefaultTTL bounds how long a mailed link stays valid.
	DefaultTTL = time.Hour

	purposeLogin = "login"
	issuer       = "talevortex"
	minSecretLen = 32
)

var (
	// ErrTokenExpired indicates the token signature is valid but its expiry passed.
	ErrTokenExpired = apperrors.New(apperrors.CodeMagicLinkExpired, "magic link expired")
	// ErrTokenInvalid indicates the token is malformed, tampered with or not a login token.
	ErrTokenInvalid = apperrors.New(apperrors.CodeMagicLinkInvalid, "magic link invalid")
)

// Config defines how login tokens are signed.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// Issuer signs and verifies HS256 login tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// claims is the JWT payload for a login token.
type claims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
}

// New builds an Issuer. Secrets shorter than 32 bytes are rejected.
func New(cfg Config) (*Issuer, error) {
	if len(cfg.Secret) < minSecretLen {
		return nil, fmt.Errorf("magic link secret must be at least %d bytes", minSecretLen)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	return &Issuer{secret: secret, ttl: cfg.TTL, now: cfg.Now}, nil
}

// TTL reports the lifetime of issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a login token for email and reports when it expires.
func (i *Issuer) Issue(email string) (string, time.Time, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return "", time.Time{}, err
	}
	now := i.now().UTC()
	expiresAt := now.Add(i.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Purpose: purposeLogin,
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign magic link: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the token signature, expiry and purpose and returns the
// email it was issued for.
func (i *Issuer) Verify(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrTokenInvalid
	}
	var parsed claims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", mapJWTError(err)
	}
	if parsed.Purpose != purposeLogin {
		return "", ErrTokenInvalid
	}
	email, err := NormalizeEmail(parsed.Subject)
	if err != nil {
		return "", ErrTokenInvalid
	}
	return email, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenExpired
	}
	return ErrTokenInvalid
}

// NormalizeEmail trims and lowercases an address and checks it parses as a
// bare mailbox.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperrors.New(apperrors.CodeUserEmailInvalid, "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "", apperrors.New(apperrors.CodeUserEmailInvalid, "email is invalid")
	}
	return email, nil
}

// DecodeSecret accepts a base64 secret, falling back to the raw bytes when the
// value is not base64.
func DecodeSecret(value string) []byte {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if decoded, err := base64.StdEncoding.DecodeString(value); err == nil {
		return decoded
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(value); err == nil {
		return decoded
	}
	return []byte(value)
}

// RandomSecret returns a fresh signing secret. Links signed with it do not
// survive a restart.
func RandomSecret() ([]byte, error) {
	secret := make([]byte, minSecretLen)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate magic link secret: %w", err)
	}
	return secret, nil
}
