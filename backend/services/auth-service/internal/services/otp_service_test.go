package services

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katara/mono-repo/backend/shared/go-models"
)

const otpEmail = "bob@example.com"

func wrongCode(code string) string {
	if code == "000000" {
		return "000001"
	}
	return "000000"
}

func TestOTPIssue_SixDigitZeroPadded(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	re := regexp.MustCompile(`^\d{6}$`)

	for i := 0; i < 50; i++ {
		code, err := h.otp.Issue(ctx, otpEmail, models.OTPPurposeVerifyEmail, 10*time.Minute)
		require.NoError(t, err)
		assert.Regexp(t, re, code)
	}
	assert.Equal(t, 1, h.otps.Len(), "re-issuing replaces the previous code")
}

func TestOTPIssue_StoresOnlyHash(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	code, err := h.otp.Issue(ctx, otpEmail, models.OTPPurposeVerifyEmail, 10*time.Minute)
	require.NoError(t, err)

	row, err := h.otps.Get(ctx, otpEmail, models.OTPPurposeVerifyEmail)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.NotContains(t, row.CodeHash, code)
	assert.Len(t, row.CodeHash, 64)
	assert.Equal(t, h.clock.Now().Add(10*time.Minute), row.ExpiresAt)
}

func TestOTPVerify_CorrectCodeConsumes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	code, err := h.otp.Issue(ctx, otpEmail, models.OTPPurposeVerifyEmail, 10*time.Minute)
	require.NoError(t, err)

	require.NoError(t, h.otp.Verify(ctx, otpEmail, models.OTPPurposeVerifyEmail, code))
	assert.ErrorIs(t, h.otp.Verify(ctx, otpEmail, models.OTPPurposeVerifyEmail, code), ErrCodeNotFound)
}

func TestOTPVerify_WrongCodeNeverVerifies(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	code, err := h.otp.Issue(ctx, otpEmail, models.OTPPurposeVerifyEmail, 10*time.Minute)
	require.NoError(t, err)

	err = h.otp.Verify(ctx, otpEmail, models.OTPPurposeVerifyEmail, wrongCode(code))
	assert.ErrorIs(t, err, ErrCodeMismatch)
	assert.True(t, IsInvalidCode(err))

	row, err := h.otps.Get(ctx, otpEmail, models.OTPPurposeVerifyEmail)
	require.NoError(t, err)
	assert.Equal(t, 1, row.Attempts)
}

func TestOTPVerify_PurposeIsolation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	code, err := h.otp.Issue(ctx, otpEmail, models.OTPPurposeVerifyEmail, 10*time.Minute)
	require.NoError(t, err)

	err = h.otp.Verify(ctx, otpEmail, models.OTPPurposeResetPassword, code)
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestOTPVerify_NinthAttemptRejectedEvenWhenCorrect(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	code, err := h.otp.Issue(ctx, otpEmail, models.OTPPurposeVerifyEmail, 10*time.Minute)
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		err := h.otp.Verify(ctx, otpEmail, models.OTPPurposeVerifyEmail, wrongCode(code))
		require.ErrorIs(t, err, ErrCodeMismatch, "attempt %d", i+1)
	}
	err = h.otp.Verify(ctx, otpEmail, models.OTPPurposeVerifyEmail, code)
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestOTPVerify_ExpiredCorrectCode(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	code, err := h.otp.Issue(ctx, otpEmail, models.OTPPurposeVerifyEmail, 10*time.Minute)
	require.NoError(t, err)

	h.clock.Advance(10 * time.Minute)
	assert.ErrorIs(t, h.otp.Verify(ctx, otpEmail, models.OTPPurposeVerifyEmail, code), ErrCodeExpired)
}

func TestOTPVerify_ReissueResetsAttempts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.otp.Issue(ctx, otpEmail, models.OTPPurposeVerifyEmail, 10*time.Minute)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		_ = h.otp.Verify(ctx, otpEmail, models.OTPPurposeVerifyEmail, wrongCode(first))
	}

	second, err := h.otp.Issue(ctx, otpEmail, models.OTPPurposeVerifyEmail, 10*time.Minute)
	require.NoError(t, err)
	assert.NoError(t, h.otp.Verify(ctx, otpEmail, models.OTPPurposeVerifyEmail, second))
}

func TestOTPVerify_ConcurrentGuessesCapped(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	code, err := h.otp.Issue(ctx, otpEmail, models.OTPPurposeVerifyEmail, 10*time.Minute)
	require.NoError(t, err)
	bad := wrongCode(code)

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		mismatches int
	)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := h.otp.Verify(ctx, otpEmail, models.OTPPurposeVerifyEmail, bad); err == ErrCodeMismatch {
				mu.Lock()
				mismatches++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, mismatches, "only eight comparisons may happen per code")
}
