package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/katara/mono-repo/backend/services/points-service/internal/config"
	"github.com/katara/mono-repo/backend/services/points-service/internal/controllers"
	"github.com/katara/mono-repo/backend/shared/go-middleware"
)

func NewRouter(cfg *config.Config, points *controllers.PointsController, health *controllers.HealthController) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger)

	router.HandleFunc(Health, health.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(PointsMapConfig, points.MapConfigHandler).Methods(http.MethodGet)

	authMw := middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)
	router.Handle(Points, authMw(http.HandlerFunc(points.ListHandler))).Methods(http.MethodGet)
	router.Handle(PointsNearest, authMw(http.HandlerFunc(points.NearestHandler))).Methods(http.MethodGet)

	return router
}
