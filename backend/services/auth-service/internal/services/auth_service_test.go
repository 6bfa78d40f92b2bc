package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katara/mono-repo/backend/services/auth-service/internal/dtos"
	"github.com/katara/mono-repo/backend/shared/go-models"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

func TestRegister_CreatesUnverifiedUserAndSendsCode(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	err := h.auth.Register(ctx, dtos.RegisterRequest{
		Email: "Alice@Example.com", Username: "alice", Password: "s3cretpass", Bio: "hola",
	}, "10.0.0.1")
	require.NoError(t, err)
	h.flush(t)

	u, err := h.users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.False(t, u.IsVerified)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "s3cretpass", u.PasswordHash)

	sent := h.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Verifica tu correo - KataraLM", sent[0].Subject)
	assert.Len(t, h.mailer.LastCodeFor("alice@example.com"), 6)
}

func TestRegister_Duplicates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.registerAndVerify(t, "alice@example.com", "alice", "s3cretpass")

	err := h.auth.Register(ctx, dtos.RegisterRequest{
		Email: "ALICE@example.com", Username: "other", Password: "s3cretpass",
	}, "10.0.0.1")
	assert.ErrorIs(t, err, utils.ErrEmailExists)

	err = h.auth.Register(ctx, dtos.RegisterRequest{
		Email: "other@example.com", Username: "Alice", Password: "s3cretpass",
	}, "10.0.0.1")
	assert.ErrorIs(t, err, utils.ErrUsernameExists)
}

func TestRegister_UndeliverableEmail(t *testing.T) {
	h := newHarness(t)
	h.auth = NewAuthService(h.cfg, h.users, h.otp, h.jwt,
		NewRateLimiterService(h.limits, h.cfg), h.notifier, staticEmailChecker{ok: false})

	err := h.auth.Register(context.Background(), dtos.RegisterRequest{
		Email: "nobody@nowhere.invalid", Username: "nobody", Password: "s3cretpass",
	}, "10.0.0.1")
	assert.ErrorIs(t, err, utils.ErrInvalidEmail)
}

func TestRegister_CheckerErrorFailsOpen(t *testing.T) {
	h := newHarness(t)
	h.auth = NewAuthService(h.cfg, h.users, h.otp, h.jwt,
		NewRateLimiterService(h.limits, h.cfg), h.notifier,
		staticEmailChecker{err: errors.New("sendgrid down")})

	err := h.auth.Register(context.Background(), dtos.RegisterRequest{
		Email: "carol@example.com", Username: "carol", Password: "s3cretpass",
	}, "10.0.0.1")
	assert.NoError(t, err)
}

func TestRegister_RateLimited(t *testing.T) {
	h := newHarness(t)
	h.cfg.EmailLimitPerIPPerHour = 1
	ctx := context.Background()

	require.NoError(t, h.auth.Register(ctx, dtos.RegisterRequest{
		Email: "a@example.com", Username: "aaa", Password: "s3cretpass",
	}, "10.0.0.9"))
	err := h.auth.Register(ctx, dtos.RegisterRequest{
		Email: "b@example.com", Username: "bbb", Password: "s3cretpass",
	}, "10.0.0.9")
	assert.ErrorIs(t, err, utils.ErrRateLimitExceeded)
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.auth.Register(ctx, dtos.RegisterRequest{
		Email: "alice@example.com", Username: "alice", Password: "s3cretpass",
	}, "10.0.0.1"))
	h.flush(t)

	_, err := h.auth.Login(ctx, "alice", "s3cretpass")
	assert.ErrorIs(t, err, utils.ErrEmailNotVerified, "unverified accounts cannot log in")

	_, err = h.auth.VerifyEmail(ctx, "alice@example.com", h.mailer.LastCodeFor("alice@example.com"))
	require.NoError(t, err)

	_, err = h.auth.Login(ctx, "alice", "wrongpass")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
	_, err = h.auth.Login(ctx, "ghost", "s3cretpass")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	for _, ident := range []string{"alice", "ALICE", "Alice@Example.com"} {
		pair, err := h.auth.Login(ctx, ident, "s3cretpass")
		require.NoError(t, err, ident)
		_, err = h.jwt.VerifyAccessToken(pair.AccessToken)
		assert.NoError(t, err)
	}
}

func TestVerifyEmail_WrongCode(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.auth.Register(ctx, dtos.RegisterRequest{
		Email: "alice@example.com", Username: "alice", Password: "s3cretpass",
	}, "10.0.0.1"))
	h.flush(t)

	code := h.mailer.LastCodeFor("alice@example.com")
	_, err := h.auth.VerifyEmail(ctx, "alice@example.com", wrongCode(code))
	assert.True(t, IsInvalidCode(err))

	u, _ := h.users.GetByEmail(ctx, "alice@example.com")
	assert.False(t, u.IsVerified)
}

func TestResetPassword_NoTokensAndOldPasswordFails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.registerAndVerify(t, "alice@example.com", "alice", "s3cretpass")
	tokensBefore := h.tokens.Len()

	require.NoError(t, h.auth.ForgotPassword(ctx, "alice@example.com", "10.0.0.1"))
	h.flush(t)

	sent := h.mailer.Sent()
	assert.Equal(t, "Recuperación de contraseña - KataraLM", sent[len(sent)-1].Subject)

	code := h.mailer.LastCodeFor("alice@example.com")
	require.NoError(t, h.auth.ResetPassword(ctx, "alice@example.com", code, "n3wpassword"))
	assert.Equal(t, tokensBefore, h.tokens.Len(), "reset must not issue tokens")

	_, err := h.auth.Login(ctx, "alice", "s3cretpass")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
	_, err = h.auth.Login(ctx, "alice", "n3wpassword")
	assert.NoError(t, err)

	assert.ErrorIs(t, h.auth.ResetPassword(ctx, "alice@example.com", code, "an0therpass"), ErrCodeNotFound)
}

func TestForgotAndResend_IdenticalForUnknownEmail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.registerAndVerify(t, "alice@example.com", "alice", "s3cretpass")
	before := len(h.mailer.Sent())

	assert.NoError(t, h.auth.ForgotPassword(ctx, "ghost@example.com", "10.0.0.1"))
	assert.NoError(t, h.auth.ResendVerification(ctx, "ghost@example.com", "10.0.0.1"))
	assert.NoError(t, h.auth.ResendVerification(ctx, "alice@example.com", "10.0.0.1"), "already verified")
	h.flush(t)

	assert.Len(t, h.mailer.Sent(), before)
}

func TestForgot_RateLimitIsSilent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.registerAndVerify(t, "alice@example.com", "alice", "s3cretpass")
	h.cfg.EmailLimitPerEmailPerHour = 0

	assert.NoError(t, h.auth.ForgotPassword(ctx, "alice@example.com", "10.0.0.1"))
	row, err := h.otps.Get(ctx, "alice@example.com", models.OTPPurposeResetPassword)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestResendVerification_ReplacesCode(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.auth.Register(ctx, dtos.RegisterRequest{
		Email: "alice@example.com", Username: "alice", Password: "s3cretpass",
	}, "10.0.0.1"))
	h.flush(t)
	first := h.mailer.LastCodeFor("alice@example.com")

	h.clock.Advance(time.Minute)
	require.NoError(t, h.auth.ResendVerification(ctx, "alice@example.com", "10.0.0.1"))
	h.flush(t)
	second := h.mailer.LastCodeFor("alice@example.com")
	require.Len(t, h.mailer.Sent(), 2)

	if first != second {
		_, err := h.auth.VerifyEmail(ctx, "alice@example.com", first)
		assert.ErrorIs(t, err, ErrCodeMismatch)
	}
	_, err := h.auth.VerifyEmail(ctx, "alice@example.com", second)
	assert.NoError(t, err)
}

func TestRefreshAndLogout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	pair := h.registerAndVerify(t, "alice@example.com", "alice", "s3cretpass")

	next, err := h.auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	_, err = h.auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	require.NoError(t, h.auth.Logout(ctx, next.RefreshToken))
	_, err = h.auth.Refresh(ctx, next.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	assert.NoError(t, h.auth.Logout(ctx, "not-a-token"))
}
