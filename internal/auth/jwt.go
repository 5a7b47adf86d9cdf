package auth

import (
	"errors"
	"fmt"
	"time"

	jw "github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Issue signs an HS256 token whose subject is the user id. Every token expires.
func Issue(secret []byte, userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	now := time.Now()
	claims := jw.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jw.NewNumericDate(now),
		ExpiresAt: jw.NewNumericDate(now.Add(ttl)),
	}
	return jw.NewWithClaims(jw.SigningMethodHS256, claims).SignedString(secret)
}

// Parse validates an HS256 token and returns the user id from its "sub" claim.
func Parse(secret []byte, tok string) (string, error) {
	if tok == "" {
		return "", ErrMissingToken
	}
	var claims jw.RegisteredClaims
	t, err := jw.ParseWithClaims(tok, &claims, func(t *jw.Token) (any, error) {
		return secret, nil
	}, jw.WithValidMethods([]string{jw.SigningMethodHS256.Alg()}), jw.WithExpirationRequired())
	if err != nil || !t.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
