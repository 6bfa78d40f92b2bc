package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/katara/mono-repo/backend/services/auth-service/internal/config"
	"github.com/katara/mono-repo/backend/services/auth-service/internal/dtos"
	"github.com/katara/mono-repo/backend/shared/go-middleware"
	"github.com/katara/mono-repo/backend/shared/go-testhelpers"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

func testConfig() *config.Config {
	return &config.Config{
		AppName:                   config.AppName,
		AppUrl:                    "http://localhost:6767",
		JWTSecret:                 testhelpers.TestJWTSecret,
		JWTIssuer:                 middleware.DefaultTokenIssuer,
		AccessTokenExpiry:         config.DefaultTokenExpiry,
		RefreshTokenExpiry:        config.DefaultRefreshTokenExpiry,
		PasswordPepper:            "test-pepper",
		BcryptCost:                bcrypt.MinCost,
		VerificationCodeLength:    config.VerificationCodeLength,
		VerificationCodeExpiry:    config.DefaultVerificationCodeExpiry,
		MaxVerificationAttempts:   config.MaxVerificationAttempts,
		EmailSendTimeout:          time.Second,
		ContactEmail:              "hola@katara.test",
		EmailLimitPerIPPerHour:    1000,
		EmailLimitPerEmailPerHour: 1000,
		GlobalEmailLimitPerHour:   1000,
		RateLimitWindow:           time.Hour,
	}
}

// memoryRateLimitRepo is a fixed-window counter that never expires.
type memoryRateLimitRepo struct {
	mu     sync.Mutex
	counts map[string]int
}

func newMemoryRateLimitRepo() *memoryRateLimitRepo {
	return &memoryRateLimitRepo{counts: map[string]int{}}
}

func (r *memoryRateLimitRepo) IncrementAndCheck(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[key]++
	return r.counts[key] <= limit, nil
}

func (r *memoryRateLimitRepo) CleanupExpired(context.Context) error { return nil }

type staticEmailChecker struct {
	ok  bool
	err error
}

func (c staticEmailChecker) Deliverable(context.Context, string) (bool, error) {
	return c.ok, c.err
}

type harness struct {
	cfg      *config.Config
	clock    *testhelpers.Clock
	users    *testhelpers.MemoryUserRepo
	otps     *testhelpers.MemoryEmailOTPRepo
	tokens   *testhelpers.MemoryTokenRepo
	limits   *memoryRateLimitRepo
	mailer   *testhelpers.CapturingMailer
	notifier NotificationService
	otp      OTPService
	jwt      JWTService
	auth     AuthService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		cfg:    testConfig(),
		clock:  testhelpers.NewClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)),
		users:  testhelpers.NewMemoryUserRepo(),
		otps:   testhelpers.NewMemoryEmailOTPRepo(),
		tokens: testhelpers.NewMemoryTokenRepo(),
		limits: newMemoryRateLimitRepo(),
		mailer: &testhelpers.CapturingMailer{},
	}
	h.otps.Now = h.clock.Now
	h.notifier = NewNotificationService(h.cfg, h.mailer)
	h.otp = NewOTPService(h.otps, h.cfg, h.clock.Now)
	h.jwt = NewJWTService(h.cfg, h.tokens, h.clock.Now)
	h.auth = NewAuthService(
		h.cfg, h.users, h.otp, h.jwt,
		NewRateLimiterService(h.limits, h.cfg),
		h.notifier,
		staticEmailChecker{ok: true},
	)
	return h
}

// flush waits for queued emails.
func (h *harness) flush(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.notifier.Wait(ctx))
}

// registerAndVerify creates a verified account and returns its first token pair.
func (h *harness) registerAndVerify(t *testing.T, email, username, password string) *TokenPair {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, h.auth.Register(ctx, dtos.RegisterRequest{
		Email: email, Username: username, Password: password,
	}, "10.0.0.1"))
	h.flush(t)

	code := h.mailer.LastCodeFor(utils.NormalizeEmail(email))
	require.Len(t, code, 6)

	pair, err := h.auth.VerifyEmail(ctx, email, code)
	require.NoError(t, err)
	return pair
}
