// ABOUTME: Test helpers that mint signed HRMS tokens
// ABOUTME: Shared by package tests that need valid, expired, or broken tokens

package tokentest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("hrms-test-secret")

// Mint returns an HS256 token for username expiring at exp.
func Mint(t testing.TB, username string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":      username,
		"username": username,
		"role":     "ADMIN",
		"iat":      time.Now().Unix(),
		"exp":      exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// Valid returns a token that expires an hour from now.
func Valid(t testing.TB, username string) string {
	return Mint(t, username, time.Now().Add(time.Hour))
}

// ExpiredAtEpoch returns a token whose exp is 1 (1970-01-01T00:00:01Z).
func ExpiredAtEpoch(t testing.TB, username string) string {
	return Mint(t, username, time.Unix(1, 0))
}

// NoExpiry returns a well-formed token that lacks the exp claim.
func NoExpiry(t testing.TB, username string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": username}).SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}
