package main

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/katara/mono-repo/backend/services/chat-service/internal/app"
	"github.com/katara/mono-repo/backend/services/chat-service/internal/config"
	"github.com/katara/mono-repo/backend/services/chat-service/internal/controllers"
	"github.com/katara/mono-repo/backend/services/chat-service/internal/routes"
	"github.com/katara/mono-repo/backend/services/chat-service/internal/services"
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

	chatRepo := repositories.NewChatRepository(application.DB)

	llmClient := services.NewLLMClient(cfg)
	chatService := services.NewChatService(chatRepo, llmClient, nil)

	router := routes.NewRouter(cfg,
		controllers.NewChatController(chatService, cfg.AppUrl),
		controllers.NewHealthController(application),
	)

	co := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := utils.NewHTTPServer(cfg.AppPort, co.Handler(router))

	utils.Logger.Infof("Starting %s on port: %s (model %s)", cfg.AppName, cfg.AppPort, cfg.ChatModel)
	if err := utils.ServeUntilSignal(srv); err != nil {
		utils.Logger.Fatal("Server error:", err)
	}
	utils.Logger.Info("Server stopped")
}
