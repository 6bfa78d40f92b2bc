package app

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/katara/mono-repo/backend/services/chat-service/internal/config"
	"github.com/katara/mono-repo/backend/shared/go-repositories"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

type App struct {
	Config *config.Config
	DB     *pgxpool.Pool
}

func NewApp(cfg *config.Config) (*App, error) {
	if cfg.RunMigrations {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		err := repositories.RunMigrations(ctx, cfg.DBUrl)
		cancel()
		if err != nil {
			return nil, err
		}
	}

	dbPool, err := repositories.ConnectWithRetry(cfg.DBUrl)
	if err != nil {
		return nil, err
	}
	return &App{Config: cfg, DB: dbPool}, nil
}

func (a *App) Ping(ctx context.Context) error {
	return a.DB.Ping(ctx)
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("Database connection closed.")
	}
}
