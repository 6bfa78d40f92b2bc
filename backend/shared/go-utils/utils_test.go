package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRandomNumericCodeShape(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := RandomNumericCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, c := range code {
			require.True(t, c >= '0' && c <= '9', "non-digit in %q", code)
		}
	}
}

func TestHashVerificationCodeIsCaseInsensitiveOnEmail(t *testing.T) {
	a := HashVerificationCode("Alice@Example.com", PurposeVerifyEmail, "007042", "pep")
	b := HashVerificationCode("alice@example.com", PurposeVerifyEmail, "007042", "pep")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	assert.NotEqual(t, a, HashVerificationCode("alice@example.com", PurposeResetPassword, "007042", "pep"))
	assert.NotEqual(t, a, HashVerificationCode("alice@example.com", PurposeVerifyEmail, "007043", "pep"))
	assert.NotEqual(t, a, HashVerificationCode("alice@example.com", PurposeVerifyEmail, "007042", "other"))
}

func TestHashTokenDeterministic(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	// sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", HashToken("abc"))
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher("pepper", bcrypt.MinCost)

	hash, err := h.Hash("password123")
	require.NoError(t, err)
	assert.NotContains(t, hash, "password123")
	assert.True(t, h.Check("password123", hash))
	assert.False(t, h.Check("wrongpass", hash))

	other := NewPasswordHasher("different", bcrypt.MinCost)
	assert.False(t, other.Check("password123", hash), "pepper must be part of the hash input")

	long := strings.Repeat("x", 128)
	longHash, err := h.Hash(long)
	require.NoError(t, err, "long passwords must not hit bcrypt's input limit")
	assert.True(t, h.Check(long, longHash))
}

func TestEnvParsing(t *testing.T) {
	vars := map[string]string{
		"NAME":     "katara",
		"COUNT":    "7",
		"BAD_INT":  "seven",
		"FLAG":     "yes",
		"TTL":      "15m",
		"ORIGINS":  "https://a.example, ,https://b.example",
		"NEG_TTL":  "-1m",
		"PRECISE":  "1.5",
		"REQUIRED": "",
	}
	env := NewEnv(func(k string) string { return vars[k] })

	assert.Equal(t, "katara", env.String("NAME", "x"))
	assert.Equal(t, "fallback", env.String("MISSING", "fallback"))
	assert.Equal(t, 7, env.Int("COUNT", 1))
	assert.True(t, env.Bool("FLAG", false))
	assert.Equal(t, 15*time.Minute, env.Duration("TTL", time.Minute))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, env.List("ORIGINS", nil))
	assert.Equal(t, 1.5, env.Float("PRECISE", 0))
	require.NoError(t, env.Err())

	assert.Equal(t, 3, env.Int("BAD_INT", 3))
	assert.Equal(t, time.Minute, env.Duration("NEG_TTL", time.Minute))
	env.Required("REQUIRED")

	err := env.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAD_INT")
	assert.Contains(t, err.Error(), "NEG_TTL")
	assert.Contains(t, err.Error(), "REQUIRED env var is missing")
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	assert.Equal(t, "10.0.0.9", ClientIP(r))

	r.Header.Set("X-Real-IP", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "garbage, 198.51.100.2")
	assert.Equal(t, "198.51.100.2", ClientIP(r))
}

func TestRespondErrorWithCode(t *testing.T) {
	var logs bytes.Buffer
	Logger.SetOutput(&logs)
	Logger.SetFormatter(&logrus.JSONFormatter{})
	defer Logger.SetOutput(io.Discard)

	rec := httptest.NewRecorder()
	RespondErrorWithCode(rec, http.StatusConflict, ErrCodeConflict, "Email already registered", nil, errors.New("dup key"))

	require.Equal(t, http.StatusConflict, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeConflict, body.Code)
	assert.Equal(t, "Email already registered", body.Message)
	assert.Nil(t, body.Details)
	assert.Contains(t, logs.String(), "dup key")
}

func TestHandleAppError(t *testing.T) {
	Logger.SetOutput(&bytes.Buffer{})

	rec := httptest.NewRecorder()
	HandleAppError(rec, &AppError{StatusCode: http.StatusNotFound, Code: ErrCodeNotFound, Message: "Chat not found"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	HandleAppError(rec, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrCodeInternal)
}

func TestEmailValidatorDeliverable(t *testing.T) {
	v := &EmailValidator{CheckMX: true, lookupMX: func(_ context.Context, domain string) ([]*net.MX, error) {
		if domain == "example.com" {
			return []*net.MX{{Host: "mx.example.com.", Pref: 10}}, nil
		}
		return nil, errors.New("no such host")
	}}
	ctx := context.Background()

	ok, err := v.Deliverable(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Deliverable(ctx, "alice@nowhere.invalid")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = v.Deliverable(ctx, "Alice <alice@example.com>")
	require.NoError(t, err)
	assert.False(t, ok, "display-name forms are not bare addresses")

	syntaxOnly := NewEmailValidator("", false, true)
	ok, err = syntaxOnly.Deliverable(ctx, "bob@anything.test")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStaticFlags(t *testing.T) {
	flags, err := NewFlagSource("", "service", "auth-service")
	require.NoError(t, err)
	assert.False(t, flags.Bool("short_token_ttl", false))
	assert.Equal(t, "def", flags.String("chat_model", "def"))

	fixed := StaticFlags{"short_token_ttl": true, "chat_model": "m"}
	assert.True(t, fixed.Bool("short_token_ttl", false))
	assert.Equal(t, "m", fixed.String("chat_model", "def"))
	assert.NoError(t, fixed.Close())
}

func TestInitLoggerLevelAndPrefix(t *testing.T) {
	var out bytes.Buffer
	initLogger("test-app", &out, func(k string) string {
		if k == "LOG_LEVEL" {
			return "warn"
		}
		return ""
	})
	defer Logger.SetLevel(logrus.InfoLevel)

	Logger.Info("hidden")
	Logger.Warn("shown")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[test-app] shown")
}

func TestRenderBrandedEmail(t *testing.T) {
	out := RenderBrandedEmail(BrandedEmail{
		Subject:      "Hola <test>",
		Title:        "Título",
		Body:         "línea<br>dos",
		Code:         "012345",
		ContactEmail: "hola@katara.dev",
		Year:         2025,
	})

	assert.Contains(t, out, "Hola &lt;test&gt;")
	assert.Contains(t, out, "línea<br>dos")
	assert.Contains(t, out, `<div class="code">012345</div>`)
	assert.Contains(t, out, "© 2025 KataraLM")
	assert.Contains(t, out, `href="#">WhatsApp`)
	assert.NotContains(t, out, `class="cta"><a`)

	noCode := RenderBrandedEmail(BrandedEmail{Title: "x", CTAURL: "https://katara.dev", CTAText: "Abrir"})
	assert.NotContains(t, noCode, "Tu código es")
	assert.Contains(t, noCode, `<a href="https://katara.dev">Abrir</a>`)
}
