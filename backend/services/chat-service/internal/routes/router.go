package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/katara/mono-repo/backend/services/chat-service/internal/config"
	"github.com/katara/mono-repo/backend/services/chat-service/internal/controllers"
	"github.com/katara/mono-repo/backend/shared/go-middleware"
)

func NewRouter(cfg *config.Config, chat *controllers.ChatController, health *controllers.HealthController) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger)

	router.HandleFunc(Health, health.HealthCheckHandler).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	secured.HandleFunc(Chats, chat.ListChatsHandler).Methods(http.MethodGet)
	secured.HandleFunc(Chats, chat.CreateChatHandler).Methods(http.MethodPost)
	// default routes before {id}
	secured.HandleFunc(ChatDefaultHistory, chat.DefaultHistoryHandler).Methods(http.MethodGet)
	secured.HandleFunc(ChatDefaultMessage, chat.DefaultMessageHandler).Methods(http.MethodPost)
	secured.HandleFunc(ChatMessages, chat.MessagesHandler).Methods(http.MethodGet)
	secured.HandleFunc(ChatMessages, chat.SendMessageHandler).Methods(http.MethodPost)

	return router
}
