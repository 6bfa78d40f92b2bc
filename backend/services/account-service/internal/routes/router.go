package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/katara/mono-repo/backend/services/account-service/internal/config"
	"github.com/katara/mono-repo/backend/services/account-service/internal/controllers"
	"github.com/katara/mono-repo/backend/shared/go-middleware"
)

type Controllers struct {
	Account *controllers.AccountController
	Contact *controllers.ContactController
	Legal   *controllers.LegalController
	Health  *controllers.HealthController
}

func NewRouter(cfg *config.Config, c Controllers) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger)

	router.HandleFunc(Health, c.Health.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(LegalTerms, c.Legal.TermsHandler).Methods(http.MethodGet)
	router.HandleFunc(LegalPrivacy, c.Legal.PrivacyHandler).Methods(http.MethodGet)

	optional := router.PathPrefix(Contact).Subrouter()
	optional.Use(middleware.OptionalAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	optional.HandleFunc("", c.Contact.SubmitHandler).Methods(http.MethodPost)

	secured := router.PathPrefix(Me).Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	secured.HandleFunc("", c.Account.GetMeHandler).Methods(http.MethodGet)
	secured.HandleFunc("", c.Account.PatchMeHandler).Methods(http.MethodPatch)
	secured.HandleFunc("/change-password", c.Account.ChangePasswordHandler).Methods(http.MethodPost)

	return router
}
