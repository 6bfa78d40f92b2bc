package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katara/mono-repo/backend/shared/go-utils"
)

func envFrom(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func baseVars() map[string]string {
	return map[string]string{
		"DB_URL":          "postgres://localhost/katara",
		"JWT_SECRET":      "0123456789abcdef0123456789abcdef",
		"PASSWORD_PEPPER": "pepper",
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := loadFromEnv(envFrom(baseVars()))
	require.NoError(t, err)
	defer cfg.Close()

	assert.Equal(t, DefaultPort, cfg.AppPort)
	assert.Equal(t, "katara", cfg.JWTIssuer)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenExpiry)
	assert.Equal(t, 720*time.Hour, cfg.RefreshTokenExpiry)
	assert.Equal(t, 10*time.Minute, cfg.VerificationCodeExpiry)
	assert.Equal(t, 8, cfg.MaxVerificationAttempts)
	assert.Equal(t, utils.DefaultBcryptCost, cfg.BcryptCost)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, []string{DefaultPublicBaseURL}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.LDFlag_ShortTokenTTL)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	vars := baseVars()
	vars["ACCESS_TOKEN_TTL"] = "5m"
	vars["OTP_TTL"] = "2m"
	vars["CORS_ALLOW_ORIGINS"] = "https://katara.pages.dev,https://app.katara.dev"
	vars["RUN_MIGRATIONS"] = "false"

	cfg, err := loadFromEnv(envFrom(vars))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenExpiry)
	assert.Equal(t, 2*time.Minute, cfg.VerificationCodeExpiry)
	assert.Equal(t, []string{"https://katara.pages.dev", "https://app.katara.dev"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.RunMigrations)
}

func TestLoadFromEnvRejectsMissingAndWeakSecrets(t *testing.T) {
	_, err := loadFromEnv(envFrom(map[string]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "PASSWORD_PEPPER")

	vars := baseVars()
	vars["JWT_SECRET"] = "short"
	_, err = loadFromEnv(envFrom(vars))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 bytes")

	vars = baseVars()
	vars["ACCESS_TOKEN_TTL"] = "soon"
	_, err = loadFromEnv(envFrom(vars))
	assert.Error(t, err)
}
