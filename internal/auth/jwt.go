// jwt.go handles JWT token creation, signing, and verification using a shared
// secret (HS256), including claims parsing.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims structure. Every token carries the caller's
// identity plus the organization and role captured at issue time; a role or
// membership change only takes effect on the next login.
type Claims struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	OrganizationID string `json:"organization_id"`
	Role           Role   `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies JWTs with a shared HS256 secret.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
	issuer string
}

// NewTokenIssuer creates a TokenIssuer. The secret must be non-empty; the
// config layer enforces that before the application starts serving.
func NewTokenIssuer(secret string, expiry time.Duration, issuer string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if expiry == 0 {
		expiry = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), expiry: expiry, issuer: issuer}, nil
}

// Issue creates a signed JWT for an authenticated user.
func (ti *TokenIssuer) Issue(userID, email, organizationID string, role Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:         userID,
		Email:          email,
		OrganizationID: organizationID,
		Role:           role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    ti.issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

// Verify parses and validates a JWT token string.
func (ti *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return ti.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}

	return claims, nil
}
