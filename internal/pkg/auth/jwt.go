package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
)

// Claims defines the token content the console reads. The console never holds
// the signing key, so tokens are inspected, not verified; the upstream remains
// the authority on validity.
type Claims struct {
	UserID   string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the user id, falling back to the registered subject
func (c *Claims) Identity() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.RegisteredClaims.Subject
}

// Inspect decodes a bearer token without verifying its signature
func Inspect(tokenString string) (*Claims, error) {
	if strings.Count(tokenString, ".") != 2 {
		return nil, apperrors.ErrTokenInvalid
	}

	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}
	return claims, nil
}

// Expired reports whether the token's exp claim lies before now.
// Tokens without an exp claim never expire from the console's point of view.
func Expired(tokenString string, now time.Time) (bool, error) {
	claims, err := Inspect(tokenString)
	if err != nil {
		return false, err
	}
	if claims.ExpiresAt == nil {
		return false, nil
	}
	return !now.Before(claims.ExpiresAt.Time), nil
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.Trim(strings.TrimSpace(authHeader), "\"'")
	if authHeader == "" {
		return "", apperrors.ErrTokenInvalid
	}

	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}

	return authHeader, nil
}

// BearerHeader formats the Authorization header value for a token
func BearerHeader(token string) string {
	return "Bearer " + token
}

// CheckUsable returns ErrTokenExpired for expired tokens and nil for usable or opaque ones.
// Opaque (non-JWT) tokens are passed through untouched.
func CheckUsable(token string, now time.Time) error {
	expired, err := Expired(token, now)
	if errors.Is(err, apperrors.ErrTokenInvalid) {
		return nil
	}
	if err != nil {
		return err
	}
	if expired {
		return apperrors.ErrTokenExpired
	}
	return nil
}
