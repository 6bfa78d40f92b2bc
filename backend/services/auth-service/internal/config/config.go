package config

import (
	"errors"
	"os"
	"time"

	"github.com/katara/mono-repo/backend/shared/go-middleware"
	"github.com/katara/mono-repo/backend/shared/go-utils"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all application configuration, including secrets, flags, etc.
type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	DBUrl            string
	RunMigrations    bool

	JWTSecret          []byte
	JWTIssuer          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	PasswordPepper string
	BcryptCost     int

	VerificationCodeLength  int
	VerificationCodeExpiry  time.Duration
	MaxVerificationAttempts int

	SendGridAPIKey    string
	SendGridFromEmail string
	EmailSendTimeout  time.Duration
	CheckEmailMX      bool
	ContactEmail      string
	WhatsAppLink      string
	TermsURL          string
	PrivacyURL        string

	RedisURL                  string
	EmailLimitPerIPPerHour    int
	EmailLimitPerEmailPerHour int
	GlobalEmailLimitPerHour   int
	RateLimitWindow           time.Duration

	CORSAllowedOrigins []string

	// Static flags fetched once from LaunchDarkly
	LDFlag_ShortTokenTTL             bool
	LDFlag_SendgridSandboxMode       bool
	LDFlag_ValidateEmailWithSendGrid bool
	LDFlag_CORSHighSecurity          bool

	flags utils.FlagSource
}

// Constants for time-based configuration defaults.
const (
	OrganizationName                 = utils.OrganizationName
	MinJWTSecretLength               = 32
	VerificationCodeLength           = 6
	MaxVerificationAttempts          = 8
	DefaultVerificationCodeExpiry    = 10 * time.Minute
	TestShortVerificationCodeExpiry  = 3 * time.Second
	DefaultTokenExpiry               = 30 * time.Minute
	DefaultRefreshTokenExpiry        = 30 * 24 * time.Hour
	TestShortTokenExpiry             = 2 * time.Second
	TestShortRefreshTokenExpiry      = 8 * time.Second
	DefaultEmailSendTimeout          = 20 * time.Second
	DefaultEmailLimitPerIPPerHour    = 50
	DefaultEmailLimitPerEmailPerHour = 5
	DefaultGlobalEmailLimitPerHour   = 2000
	DefaultRateLimitWindow           = 1 * time.Hour
	DefaultPort                      = "6767"
	DefaultPublicBaseURL             = "http://localhost:6767"
)

// Global compile-time overrides, defaults for demonstration.
var (
	AppName             = "auth-service"
	LDServerContextKey  = "auth-service"
	LDServerContextKind = "service"
)

// LoadConfig reads .env and the process environment, resolves feature flags,
// and returns a *Config. Any invalid setting is fatal.
func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)
	utils.LoadDotEnv()

	cfg, err := loadFromEnv(os.Getenv)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Invalid configuration")
	}
	utils.Logger.Debugf("App can be accessed at: %s", cfg.AppUrl)
	return cfg
}

func loadFromEnv(getenv func(string) string) (*Config, error) {
	env := utils.NewEnv(getenv)

	cfg := &Config{
		OrganizationName: OrganizationName,
		AppName:          AppName,
		AppPort:          env.String("PORT", DefaultPort),
		AppUrl:           env.String("PUBLIC_BASE_URL", DefaultPublicBaseURL),
		DBUrl:            env.Required("DB_URL"),
		RunMigrations:    env.Bool("RUN_MIGRATIONS", true),

		JWTSecret:          []byte(env.Required("JWT_SECRET")),
		JWTIssuer:          env.String("JWT_ISSUER", middleware.DefaultTokenIssuer),
		AccessTokenExpiry:  env.Duration("ACCESS_TOKEN_TTL", DefaultTokenExpiry),
		RefreshTokenExpiry: env.Duration("REFRESH_TOKEN_TTL", DefaultRefreshTokenExpiry),

		PasswordPepper: env.Required("PASSWORD_PEPPER"),
		BcryptCost:     env.Int("BCRYPT_COST", utils.DefaultBcryptCost),

		VerificationCodeLength:  VerificationCodeLength,
		VerificationCodeExpiry:  env.Duration("OTP_TTL", DefaultVerificationCodeExpiry),
		MaxVerificationAttempts: MaxVerificationAttempts,

		SendGridAPIKey:    env.String("SENDGRID_API_KEY", ""),
		SendGridFromEmail: env.String("SENDGRID_FROM_EMAIL", "no-reply@katara.local"),
		EmailSendTimeout:  env.Duration("EMAIL_SEND_TIMEOUT", DefaultEmailSendTimeout),
		CheckEmailMX:      env.Bool("CHECK_EMAIL_MX", true),
		ContactEmail:      env.String("CONTACT_EMAIL", ""),
		WhatsAppLink:      env.String("WHATSAPP_LINK", ""),
		TermsURL:          env.String("TERMS_URL", ""),
		PrivacyURL:        env.String("PRIVACY_URL", ""),

		RedisURL:                  env.String("REDIS_URL", ""),
		EmailLimitPerIPPerHour:    env.Int("EMAIL_LIMIT_PER_IP_PER_HOUR", DefaultEmailLimitPerIPPerHour),
		EmailLimitPerEmailPerHour: env.Int("EMAIL_LIMIT_PER_EMAIL_PER_HOUR", DefaultEmailLimitPerEmailPerHour),
		GlobalEmailLimitPerHour:   env.Int("GLOBAL_EMAIL_LIMIT_PER_HOUR", DefaultGlobalEmailLimitPerHour),
		RateLimitWindow:           env.Duration("RATE_LIMIT_WINDOW", DefaultRateLimitWindow),
	}
	cfg.CORSAllowedOrigins = env.List("CORS_ALLOW_ORIGINS", []string{cfg.AppUrl})

	if len(cfg.JWTSecret) > 0 && len(cfg.JWTSecret) < MinJWTSecretLength {
		env.Fail(errors.New("JWT_SECRET must be at least 32 bytes"))
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		env.Fail(errors.New("BCRYPT_COST is out of range"))
	}
	if err := env.Err(); err != nil {
		return nil, err
	}

	//----------------------------------------------------------------------
	// Fetch the static flags (LaunchDarkly when LD_SDK_KEY is set).
	//----------------------------------------------------------------------
	flags, err := utils.NewFlagSource(env.String("LD_SDK_KEY", ""), LDServerContextKind, LDServerContextKey)
	if err != nil {
		return nil, err
	}
	cfg.flags = flags
	cfg.LDFlag_ShortTokenTTL = flags.Bool("short_token_ttl", false)
	cfg.LDFlag_SendgridSandboxMode = flags.Bool("sendgrid_sandbox_mode", false)
	cfg.LDFlag_ValidateEmailWithSendGrid = flags.Bool("validate_email_with_sendgrid", false)
	cfg.LDFlag_CORSHighSecurity = flags.Bool("cors_high_security", true)

	//----------------------------------------------------------------------
	// If shortTokenTTLFlag is true, override expiries.
	//----------------------------------------------------------------------
	if cfg.LDFlag_ShortTokenTTL {
		cfg.AccessTokenExpiry = TestShortTokenExpiry
		cfg.RefreshTokenExpiry = TestShortRefreshTokenExpiry
		cfg.VerificationCodeExpiry = TestShortVerificationCodeExpiry
	}
	if !cfg.LDFlag_CORSHighSecurity {
		cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	return cfg, nil
}

// Close releases the flag client.
func (c *Config) Close() {
	if c.flags != nil {
		_ = c.flags.Close()
	}
}
