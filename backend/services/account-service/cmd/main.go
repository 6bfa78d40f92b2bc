package main

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/katara/mono-repo/backend/services/account-service/internal/app"
	"github.com/katara/mono-repo/backend/services/account-service/internal/config"
	"github.com/katara/mono-repo/backend/services/account-service/internal/controllers"
	"github.com/katara/mono-repo/backend/services/account-service/internal/routes"
	"github.com/katara/mono-repo/backend/services/account-service/internal/services"
	"github.com/katara/mono-repo/backend/shared/go-repositories"
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

	// Repositories
	userRepo := repositories.NewUserRepository(application.DB)
	tokenRepo := repositories.NewTokenRepository(application.DB)
	contactRepo := repositories.NewContactRepository(application.DB)

	var mailer utils.Mailer = utils.LogMailer{}
	if cfg.SendGridAPIKey != "" {
		mailer = utils.NewSendGridMailer(
			cfg.SendGridAPIKey, utils.BrandName, cfg.SendGridFromEmail, cfg.LDFlag_SendgridSandboxMode,
		)
	}

	// Services
	accountService := services.NewAccountService(cfg, userRepo, tokenRepo)
	contactService := services.NewContactService(cfg, contactRepo, mailer)

	// Controllers
	router := routes.NewRouter(cfg, routes.Controllers{
		Account: controllers.NewAccountController(accountService, cfg.AppUrl),
		Contact: controllers.NewContactController(contactService, cfg.WhatsAppLink),
		Legal:   controllers.NewLegalController(),
		Health:  controllers.NewHealthController(application),
	})

	co := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
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
