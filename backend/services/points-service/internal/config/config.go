package config

import (
	"errors"
	"os"

	"github.com/katara/mono-repo/backend/shared/go-middleware"
	"github.com/katara/mono-repo/backend/shared/go-utils"
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

	ArcGISAPIKey   string
	PointsSeedFile string

	CORSAllowedOrigins []string

	LDFlag_CORSHighSecurity bool

	flags utils.FlagSource
}

const (
	OrganizationName     = utils.OrganizationName
	MinJWTSecretLength   = 32
	DefaultPort          = "6769"
	DefaultPublicBaseURL = "http://localhost:6767"
)

// Default values, override via ldflags at build time.
var (
	AppName             = "points-service"
	LDServerContextKey  = "points-service"
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
		RunMigrations:    env.Bool("RUN_MIGRATIONS", false),

		JWTSecret: []byte(env.Required("JWT_SECRET")),
		JWTIssuer: env.String("JWT_ISSUER", middleware.DefaultTokenIssuer),

		ArcGISAPIKey:   env.String("ARCGIS_API_KEY", ""),
		PointsSeedFile: env.String("POINTS_SEED_FILE", ""),
	}
	cfg.CORSAllowedOrigins = env.List("CORS_ALLOW_ORIGINS", []string{cfg.AppUrl})

	if len(cfg.JWTSecret) > 0 && len(cfg.JWTSecret) < MinJWTSecretLength {
		env.Fail(errors.New("JWT_SECRET must be at least 32 bytes"))
	}
	if err := env.Err(); err != nil {
		return nil, err
	}

	flags, err := utils.NewFlagSource(env.String("LD_SDK_KEY", ""), LDServerContextKind, LDServerContextKey)
	if err != nil {
		return nil, err
	}
	cfg.flags = flags
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
