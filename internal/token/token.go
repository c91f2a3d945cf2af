// ABOUTME: Local decoding of the bearer token issued by the HRMS backend
// ABOUTME: Reads claims without verifying the signature and checks expiry

package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed is returned when the token cannot be decoded into claims.
	ErrMalformed = errors.New("malformed token")
	// ErrMissingExpiry is returned when the claims carry no exp field.
	ErrMissingExpiry = errors.New("token has no expiry")
	// ErrExpired is returned by Check when exp is not in the future.
	ErrExpired = errors.New("token expired")
)

// Claims holds the payload segment of an HRMS token
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// parser only decodes; the client never holds the signing key
var parser = jwt.NewParser()

// Decode parses the middle segment of a three-segment token. The header
// is not read, so any signing algorithm is accepted.
func Decode(raw string) (*Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, ErrMalformed
	}

	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	claims := &Claims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if claims.RegisteredClaims.ExpiresAt == nil {
		return nil, ErrMissingExpiry
	}
	return claims, nil
}

// Expiry returns the expiry instant.
func (c *Claims) Expiry() time.Time {
	if c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}

// Expired reports whether the token is no longer valid at now.
// A token is valid only while exp*1000 > now in milliseconds.
func (c *Claims) Expired(now time.Time) bool {
	if c.RegisteredClaims.ExpiresAt == nil {
		return true
	}
	return c.RegisteredClaims.ExpiresAt.Time.UnixMilli() <= now.UnixMilli()
}

// Check decodes raw and rejects it if it is invalid or expired at now.
// Both hydration and the gateway use it so the two paths agree.
func Check(raw string, now time.Time) (*Claims, error) {
	claims, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if claims.Expired(now) {
		return claims, ErrExpired
	}
	return claims, nil
}

// IsInvalid reports whether err means the token could not be decoded at all.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrMalformed) || errors.Is(err, ErrMissingExpiry)
}
