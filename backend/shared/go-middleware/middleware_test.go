package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katara/mono-repo/backend/shared/go-utils"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func sign(t *testing.T, secret []byte, method jwt.SigningMethod, claims TokenClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(secret)
	require.NoError(t, err)
	return s
}

func claimsFor(sub, iss string, exp time.Time) TokenClaims {
	return TokenClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    iss,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(exp),
	}}
}

func TestValidateAccessToken(t *testing.T) {
	future := time.Now().Add(time.Hour)

	good := sign(t, testSecret, jwt.SigningMethodHS256, claimsFor("user-1", DefaultTokenIssuer, future))
	sub, err := ValidateAccessToken(good, testSecret, DefaultTokenIssuer, nil)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)

	_, err = ValidateAccessToken(good, []byte("another-secret-another-secret-xx"), DefaultTokenIssuer, nil)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ValidateAccessToken(good, testSecret, "someone-else", nil)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	expired := sign(t, testSecret, jwt.SigningMethodHS256, claimsFor("user-1", DefaultTokenIssuer, time.Now().Add(-time.Minute)))
	_, err = ValidateAccessToken(expired, testSecret, DefaultTokenIssuer, nil)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	hs512 := sign(t, testSecret, jwt.SigningMethodHS512, claimsFor("user-1", DefaultTokenIssuer, future))
	_, err = ValidateAccessToken(hs512, testSecret, DefaultTokenIssuer, nil)
	assert.Error(t, err)

	refreshClaims := claimsFor("user-1", DefaultTokenIssuer, future)
	refreshClaims.Type = TokenTypeRefresh
	refresh := sign(t, testSecret, jwt.SigningMethodHS256, refreshClaims)
	_, err = ValidateAccessToken(refresh, testSecret, DefaultTokenIssuer, nil)
	assert.ErrorIs(t, err, ErrUnexpectedTokenType)

	noSub := sign(t, testSecret, jwt.SigningMethodHS256, claimsFor("", DefaultTokenIssuer, future))
	_, err = ValidateAccessToken(noSub, testSecret, DefaultTokenIssuer, nil)
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestParseTokenUsesInjectedClock(t *testing.T) {
	exp := time.Now().Add(time.Minute)
	tok := sign(t, testSecret, jwt.SigningMethodHS256, claimsFor("user-1", DefaultTokenIssuer, exp))

	_, err := ParseToken(tok, testSecret, DefaultTokenIssuer, func() time.Time { return exp.Add(time.Second) })
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func protectedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := UserIDFromContext(r.Context())
		_, _ = w.Write([]byte(id))
	})
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestAuthMiddleware(t *testing.T) {
	utils.Logger.SetOutput(io.Discard)
	h := AuthMiddleware(testSecret, DefaultTokenIssuer)(protectedHandler())

	// missing header
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, utils.ErrCodeUnauthorized, errorCode(t, rec))

	// valid
	tok := sign(t, testSecret, jwt.SigningMethodHS256, claimsFor("user-42", DefaultTokenIssuer, time.Now().Add(time.Hour)))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", rec.Body.String())

	// expired
	expired := sign(t, testSecret, jwt.SigningMethodHS256, claimsFor("user-42", DefaultTokenIssuer, time.Now().Add(-time.Hour)))
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, utils.ErrCodeTokenExpired, errorCode(t, rec))

	// garbage
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, utils.ErrCodeUnauthorized, errorCode(t, rec))
}

func TestOptionalAuthMiddleware(t *testing.T) {
	utils.Logger.SetOutput(io.Discard)
	h := OptionalAuthMiddleware(testSecret, DefaultTokenIssuer)(protectedHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contact", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/contact", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestLoggerKeepsStatus(t *testing.T) {
	utils.Logger.SetOutput(io.Discard)
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
