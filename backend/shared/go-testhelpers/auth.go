package testhelpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/katara/mono-repo/backend/shared/go-middleware"
)

// TestJWTSecret is long enough to satisfy every service's config check.
var TestJWTSecret = []byte("test-secret-test-secret-test-secret!")

// CreateAccessToken signs a short-lived HS256 access token the way the auth
// service does.
func CreateAccessToken(t *testing.T, secret []byte, issuer string, userID uuid.UUID) string {
	t.Helper()
	now := time.Now()
	claims := middleware.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err, "Failed to sign test access token")
	return signed
}
