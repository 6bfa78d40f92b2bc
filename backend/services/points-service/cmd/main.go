package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/katara/mono-repo/backend/services/points-service/internal/app"
	"github.com/katara/mono-repo/backend/services/points-service/internal/config"
	"github.com/katara/mono-repo/backend/services/points-service/internal/controllers"
	"github.com/katara/mono-repo/backend/services/points-service/internal/routes"
	"github.com/katara/mono-repo/backend/services/points-service/internal/services"
	"github.com/katara/mono-repo/backend/shared/go-repositories"
	"github.com/katara/mono-repo/backend/shared/go-seeding"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize the application:", err)
	}
	defer application.Close()

	pointRepo := repositories.NewPointRepository(application.DB)

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := seeding.SeedPointsIfEmpty(seedCtx, pointRepo, cfg.PointsSeedFile); err != nil {
		cancel()
		utils.Logger.Fatal("Failed to seed points:", err)
	}
	cancel()

	pointsService := services.NewPointsService(pointRepo, cfg.ArcGISAPIKey)

	router := routes.NewRouter(cfg,
		controllers.NewPointsController(pointsService),
		controllers.NewHealthController(application),
	)

	co := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := utils.NewHTTPServer(cfg.AppPort, co.Handler(router))

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := utils.ServeUntilSignal(srv); err != nil {
		utils.Logger.Fatal("Server error:", err)
	}
	utils.Logger.Info("Server stopped")
}
