package config

import (
	"errors"
	"os"
	"time"

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

	// LLM provider (OpenAI-compatible chat completions)
	LLMAPIKey      string
	LLMBaseURL     string
	LLMTimeout     time.Duration
	LLMTemperature float64
	LLMMaxTokens   int
	ChatModel      string

	CORSAllowedOrigins []string

	LDFlag_CORSHighSecurity bool

	flags utils.FlagSource
}

const (
	OrganizationName     = utils.OrganizationName
	MinJWTSecretLength   = 32
	DefaultPort          = "6770"
	DefaultPublicBaseURL = "http://localhost:6767"

	DefaultLLMBaseURL  = "https://api.groq.com/openai/v1/"
	DefaultChatModel   = "llama-3.3-70b-versatile"
	DefaultLLMTimeout  = 60 * time.Second
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 700
)

// Default values, override via ldflags at build time.
var (
	AppName             = "chat-service"
	LDServerContextKey  = "chat-service"
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

		LLMAPIKey:      env.String("GROQ_API_KEY_CHAT", ""),
		LLMBaseURL:     env.String("LLM_BASE_URL", DefaultLLMBaseURL),
		LLMTimeout:     env.Duration("LLM_TIMEOUT", DefaultLLMTimeout),
		LLMTemperature: env.Float("LLM_TEMPERATURE", DefaultTemperature),
		LLMMaxTokens:   env.Int("LLM_MAX_TOKENS", DefaultMaxTokens),
	}
	cfg.CORSAllowedOrigins = env.List("CORS_ALLOW_ORIGINS", []string{cfg.AppUrl})

	if len(cfg.JWTSecret) > 0 && len(cfg.JWTSecret) < MinJWTSecretLength {
		env.Fail(errors.New("JWT_SECRET must be at least 32 bytes"))
	}
	if cfg.LLMMaxTokens <= 0 {
		env.Fail(errors.New("LLM_MAX_TOKENS must be positive"))
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
	// CHAT_MODEL overrides the chat_model flag.
	cfg.ChatModel = env.String("CHAT_MODEL", flags.String("chat_model", DefaultChatModel))

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
