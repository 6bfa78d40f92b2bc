package main

import (
	"context"
	"net/http"

	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/katara/mono-repo/backend/services/auth-service/internal/app"
	"github.com/katara/mono-repo/backend/services/auth-service/internal/config"
	"github.com/katara/mono-repo/backend/services/auth-service/internal/controllers"
	auth_repositories "github.com/katara/mono-repo/backend/services/auth-service/internal/repositories"
	"github.com/katara/mono-repo/backend/services/auth-service/internal/routes"
	"github.com/katara/mono-repo/backend/services/auth-service/internal/services"
	"github.com/katara/mono-repo/backend/shared/go-repositories"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize application:", err)
	}
	defer application.Close()

	//----------------------------------------------------------------------
	// Repositories
	//----------------------------------------------------------------------
	userRepo := repositories.NewUserRepository(application.DB)
	otpRepo := repositories.NewEmailOTPRepository(application.DB)
	tokenRepo := repositories.NewTokenRepository(application.DB)

	var rateLimitRepo auth_repositories.RateLimitRepository
	if application.Redis != nil {
		rateLimitRepo = auth_repositories.NewRedisRateLimitRepository(application.Redis)
	} else {
		rateLimitRepo = auth_repositories.NewRateLimitRepository(application.DB)
	}

	//----------------------------------------------------------------------
	// Collaborators
	//----------------------------------------------------------------------
	var mailer utils.Mailer = utils.LogMailer{}
	if cfg.SendGridAPIKey != "" {
		mailer = utils.NewSendGridMailer(
			cfg.SendGridAPIKey, utils.BrandName, cfg.SendGridFromEmail, cfg.LDFlag_SendgridSandboxMode,
		)
	} else {
		utils.Logger.Warn("SENDGRID_API_KEY not set; emails will only be logged")
	}
	emailValidator := utils.NewEmailValidator(cfg.SendGridAPIKey, cfg.CheckEmailMX, cfg.LDFlag_ValidateEmailWithSendGrid)

	//----------------------------------------------------------------------
	// Services
	//----------------------------------------------------------------------
	rateLimiterService := services.NewRateLimiterService(rateLimitRepo, cfg)
	notificationService := services.NewNotificationService(cfg, mailer)
	otpService := services.NewOTPService(otpRepo, cfg, nil)
	jwtService := services.NewJWTService(cfg, tokenRepo, nil)

	authService := services.NewAuthService(
		cfg,
		userRepo,
		otpService,
		jwtService,
		rateLimiterService,
		notificationService,
		emailValidator,
	)

	verificationCleanupService := services.NewVerificationCleanupService(otpRepo)
	tokenCleanupService := services.NewTokenCleanupService(tokenRepo)
	rateLimitCleanupService := services.NewRateLimitCleanupService(rateLimitRepo)

	//----------------------------------------------------------------------
	// Controllers & Router
	//----------------------------------------------------------------------
	authController := controllers.NewAuthController(authService)
	healthController := controllers.NewHealthController(application)

	router := routes.NewRouter(authController, healthController)

	//----------------------------------------------------------------------
	// Setup daily cleanup via cron
	//----------------------------------------------------------------------
	c := cron.New()

	// verification codes
	_, schErr1 := c.AddFunc("0 3 * * *", func() {
		if e := verificationCleanupService.CleanupDaily(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled verification-codes cleanup failed")
		}
	})
	if schErr1 != nil {
		utils.Logger.WithError(schErr1).Fatal("Failed to schedule verification-codes cleanup job")
	}

	// token cleanup
	_, schErr2 := c.AddFunc("5 3 * * *", func() {
		if e := tokenCleanupService.CleanupDaily(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled token cleanup failed")
		}
	})
	if schErr2 != nil {
		utils.Logger.WithError(schErr2).Fatal("Failed to schedule token cleanup job")
	}

	// rate limit counter cleanup
	_, schErr3 := c.AddFunc("10 3 * * *", func() {
		if e := rateLimitCleanupService.CleanupDaily(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled rate limit counter cleanup failed")
		}
	})
	if schErr3 != nil {
		utils.Logger.WithError(schErr3).Fatal("Failed to schedule rate limit counter cleanup job")
	}

	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := utils.NewHTTPServer(cfg.AppPort, co.Handler(router))

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	err = utils.ServeUntilSignal(srv,
		func(ctx context.Context) {
			select {
			case <-c.Stop().Done():
			case <-ctx.Done():
			}
		},
		func(ctx context.Context) {
			if err := notificationService.Wait(ctx); err != nil {
				utils.Logger.WithError(err).Warn("Pending emails dropped at shutdown")
			}
		},
	)
	if err != nil {
		utils.Logger.Fatal("Server error:", err)
	}
	utils.Logger.Info("Server stopped")
}
