package config

import (
	"errors"
	"os"
	"time"

	"github.com/katara/mono-repo/backend/shared/go-middleware"
	"github.com/katara/mono-repo/backend/shared/go-utils"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	DBUrl            string
	RunMigrations    bool

	JWTSecret []byte
	JWTIssuer string

	PasswordPepper string
	BcryptCost     int

	SendGridAPIKey    string
	SendGridFromEmail string
	EmailSendTimeout  time.Duration
	ContactEmail      string
	WhatsAppLink      string
	TermsURL          string
	PrivacyURL        string

	CORSAllowedOrigins []string

	LDFlag_SendgridSandboxMode bool
	LDFlag_CORSHighSecurity    bool

	flags utils.FlagSource
}

const (
	OrganizationName        = utils.OrganizationName
	MinJWTSecretLength      = 32
	DefaultEmailSendTimeout = 20 * time.Second
	DefaultPort             = "6768"
	DefaultPublicBaseURL    = "http://localhost:6767"
)

// Default values, override via ldflags at build time.
var (
	AppName             = "account-service"
	LDServerContextKey  = "account-service"
	LDServerContextKind = "service"
)

func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)
	utils.LoadDotEnv()

	cfg, err := loadFromEnv(os.Getenv)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Invalid configuration")
	}
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
		// auth-service owns the schema.
		RunMigrations: env.Bool("RUN_MIGRATIONS", false),

		JWTSecret: []byte(env.Required("JWT_SECRET")),
		JWTIssuer: env.String("JWT_ISSUER", middleware.DefaultTokenIssuer),

		PasswordPepper: env.Required("PASSWORD_PEPPER"),
		BcryptCost:     env.Int("BCRYPT_COST", utils.DefaultBcryptCost),

		SendGridAPIKey:    env.String("SENDGRID_API_KEY", ""),
		SendGridFromEmail: env.String("SENDGRID_FROM_EMAIL", "no-reply@katara.local"),
		EmailSendTimeout:  env.Duration("EMAIL_SEND_TIMEOUT", DefaultEmailSendTimeout),
		ContactEmail:      env.String("CONTACT_EMAIL", ""),
		WhatsAppLink:      env.String("WHATSAPP_LINK", ""),
		TermsURL:          env.String("TERMS_URL", ""),
		PrivacyURL:        env.String("PRIVACY_URL", ""),
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

	flags, err := utils.NewFlagSource(env.String("LD_SDK_KEY", ""), LDServerContextKind, LDServerContextKey)
	if err != nil {
		return nil, err
	}
	cfg.flags = flags
	cfg.LDFlag_SendgridSandboxMode = flags.Bool("sendgrid_sandbox_mode", false)
	cfg.LDFlag_CORSHighSecurity = flags.Bool("cors_high_security", true)

	if !cfg.LDFlag_CORSHighSecurity {
		cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}
	return cfg, nil
}

func (c *Config) Close() {
	if c.flags != nil {
		_ = c.flags.Close()
	}
}
