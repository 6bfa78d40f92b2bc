package middleware

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenIssuer is the "iss" claim used when none is configured.
const DefaultTokenIssuer = "katara"

// TokenTypeRefresh marks refresh tokens in the "typ" claim. Access tokens carry no type.
const TokenTypeRefresh = "refresh"

var (
	ErrUnexpectedTokenType = errors.New("unexpected token type")
	ErrMissingSubject      = errors.New("missing subject claim")
)

// TokenClaims are the claims carried by every token this backend issues.
type TokenClaims struct {
	Type string `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

// ParseToken checks the HS256 signature, expiry, and issuer of tokenString.
// now is used as the validation clock; nil means time.Now.
func ParseToken(tokenString string, secret []byte, issuer string, now func() time.Time) (*TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	}
	if now != nil {
		opts = append(opts, jwt.WithTimeFunc(now))
	}

	claims := &TokenClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

// ValidateAccessToken returns the subject of a valid access token.
// Refresh tokens are rejected even though they share the signing key.
func ValidateAccessToken(tokenString string, secret []byte, issuer string, now func() time.Time) (string, error) {
	claims, err := ParseToken(tokenString, secret, issuer, now)
	if err != nil {
		return "", err
	}
	if claims.Type != "" {
		return "", ErrUnexpectedTokenType
	}
	return claims.Subject, nil
}
