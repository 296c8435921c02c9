package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken means no bearer token was supplied.
	ErrMissingToken = errors.New("bearer token is empty")

	// ErrExpiredToken means the token is a JWT whose exp claim has passed.
	ErrExpiredToken = errors.New("bearer token is expired")
)

// CheckToken reports whether a bearer token is obviously unusable. A non-JWT
// (opaque) token passes as long as it is non-empty; the server remains the
// authority on whether it is actually valid.
func CheckToken(token string, now time.Time) error {
	if strings.TrimSpace(token) == "" {
		return ErrMissingToken
	}

	// Opaque tokens have no inspectable structure.
	if strings.Count(token, ".") != 2 {
		return nil
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		// Looks like a JWT but does not parse as one; treat as opaque.
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if exp.Before(now) {
		return fmt.Errorf("%w (exp %s)", ErrExpiredToken, exp.Format(time.RFC3339))
	}

	return nil
}
