package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	vars := map[string]string{
		"DB_URL":          "postgres://localhost/katara",
		"JWT_SECRET":      "0123456789abcdef0123456789abcdef",
		"PASSWORD_PEPPER": "pepper",
		"CONTACT_EMAIL":   "hola@katara.dev",
	}
	cfg, err := loadFromEnv(func(k string) string { return vars[k] })
	require.NoError(t, err)
	defer cfg.Close()

	assert.Equal(t, DefaultPort, cfg.AppPort)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, "hola@katara.dev", cfg.ContactEmail)
	assert.Equal(t, []string{DefaultPublicBaseURL}, cfg.CORSAllowedOrigins)
}

func TestLoadFromEnvMissingSecrets(t *testing.T) {
	_, err := loadFromEnv(func(string) string { return "" })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
