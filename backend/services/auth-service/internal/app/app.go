package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/katara/mono-repo/backend/services/auth-service/internal/config"
	"github.com/katara/mono-repo/backend/shared/go-repositories"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

const (
	redisTimeout     = 5 * time.Second
	migrationTimeout = 60 * time.Second
)

type App struct {
	Config *config.Config
	DB     *pgxpool.Pool
	// Redis is nil unless REDIS_URL is configured.
	Redis *redis.Client
}

func NewApp(cfg *config.Config) (*App, error) {
	if cfg.RunMigrations {
		ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
		err := repositories.RunMigrations(ctx, cfg.DBUrl)
		cancel()
		if err != nil {
			return nil, err
		}
		utils.Logger.Info("Database migrations applied")
	}

	dbPool, err := repositories.ConnectWithRetry(cfg.DBUrl)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		DB:     dbPool,
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		a.Redis = redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
		defer cancel()
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("unable to reach redis: %w", err)
		}
		utils.Logger.Info("Using Redis for rate limiting")
	}

	return a, nil
}

// Ping checks every backing store.
func (a *App) Ping(ctx context.Context) error {
	if err := a.DB.Ping(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if a.Redis != nil {
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("Database connection closed.")
	}
}
