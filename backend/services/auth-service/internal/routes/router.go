package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/katara/mono-repo/backend/services/auth-service/internal/controllers"
	"github.com/katara/mono-repo/backend/shared/go-middleware"
)

// NewRouter wires every auth-service endpoint.
func NewRouter(auth *controllers.AuthController, health *controllers.HealthController) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger)

	router.HandleFunc(Health, health.HealthCheckHandler).Methods(http.MethodGet)

	router.HandleFunc(AuthRegister, auth.Register).Methods(http.MethodPost)
	router.HandleFunc(AuthResendVerification, auth.ResendVerification).Methods(http.MethodPost)
	router.HandleFunc(AuthVerifyEmail, auth.VerifyEmail).Methods(http.MethodPost)
	router.HandleFunc(AuthLogin, auth.Login).Methods(http.MethodPost)
	router.HandleFunc(AuthRefresh, auth.Refresh).Methods(http.MethodPost)
	router.HandleFunc(AuthLogout, auth.Logout).Methods(http.MethodPost)
	router.HandleFunc(AuthForgotPassword, auth.ForgotPassword).Methods(http.MethodPost)
	router.HandleFunc(AuthResetPassword, auth.ResetPassword).Methods(http.MethodPost)

	return router
}
