package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestCheckTokenEmpty(t *testing.T) {
	now := time.Now()

	if err := CheckToken("", now); !errors.Is(err, ErrMissingToken) {
		t.Errorf("empty token: got %v, want ErrMissingToken", err)
	}
	if err := CheckToken("   ", now); !errors.Is(err, ErrMissingToken) {
		t.Errorf("blank token: got %v, want ErrMissingToken", err)
	}
}

func TestCheckTokenOpaque(t *testing.T) {
	if err := CheckToken("a-plain-opaque-token", time.Now()); err != nil {
		t.Errorf("opaque token must pass pre-flight: %v", err)
	}
	// Two dots but not actually a JWT: still opaque as far as we can tell.
	if err := CheckToken("not.a.jwt", time.Now()); err != nil {
		t.Errorf("pseudo-JWT must pass pre-flight: %v", err)
	}
}

func TestCheckTokenExpiredJWT(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	expired := signedToken(t, jwt.MapClaims{
		"sub": "student-7",
		"exp": now.Add(-time.Hour).Unix(),
	})

	if err := CheckToken(expired, now); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expired JWT: got %v, want ErrExpiredToken", err)
	}
}

func TestCheckTokenValidJWT(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	live := signedToken(t, jwt.MapClaims{
		"sub": "student-7",
		"exp": now.Add(time.Hour).Unix(),
	})
	if err := CheckToken(live, now); err != nil {
		t.Errorf("live JWT must pass pre-flight: %v", err)
	}

	noExp := signedToken(t, jwt.MapClaims{"sub": "student-7"})
	if err := CheckToken(noExp, now); err != nil {
		t.Errorf("JWT without exp must pass pre-flight: %v", err)
	}
}
