package controllers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/katara/mono-repo/backend/services/chat-service/internal/dtos"
	"github.com/katara/mono-repo/backend/services/chat-service/internal/services"
	shared_dtos "github.com/katara/mono-repo/backend/shared/go-dtos"
	"github.com/katara/mono-repo/backend/shared/go-middleware"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

var validate = shared_dtos.NewValidator()

type ChatController struct {
	chatService   services.ChatService
	publicBaseURL string
}

func NewChatController(chatService services.ChatService, publicBaseURL string) *ChatController {
	return &ChatController{chatService: chatService, publicBaseURL: publicBaseURL}
}

// ListChatsHandler => GET /chats
func (c *ChatController) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	chats, err := c.chatService.ListChats(r.Context(), userID)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to list chats", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewChatsFromModels(chats))
}

// CreateChatHandler => POST /chats
func (c *ChatController) CreateChatHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dtos.CreateChatRequest
	if r.ContentLength != 0 {
		if !shared_dtos.DecodeAndValidate(w, r, validate, &req) {
			return
		}
	}

	chat, err := c.chatService.CreateChat(r.Context(), userID, req.Title)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to create chat", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.CreateChatResponse{OK: true, ChatID: chat.ID})
}

// MessagesHandler => GET /chats/{id}/messages
func (c *ChatController) MessagesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	chatID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondChatNotFound(w)
		return
	}
	c.respondHistory(w, r, userID, chatID)
}

// SendMessageHandler => POST /chats/{id}/messages
func (c *ChatController) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	chatID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondChatNotFound(w)
		return
	}
	c.send(w, r, userID, chatID)
}

// DefaultHistoryHandler => GET /chats/default/history
func (c *ChatController) DefaultHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	chat, err := c.chatService.DefaultChat(r.Context(), userID)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to load default chat", nil, err)
		return
	}
	c.respondHistory(w, r, userID, chat.ID)
}

// DefaultMessageHandler => POST /chats/default/message
func (c *ChatController) DefaultMessageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	chat, err := c.chatService.DefaultChat(r.Context(), userID)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to load default chat", nil, err)
		return
	}
	c.send(w, r, userID, chat.ID)
}

func (c *ChatController) respondHistory(w http.ResponseWriter, r *http.Request, userID, chatID uuid.UUID) {
	msgs, err := c.chatService.Messages(r.Context(), userID, chatID)
	switch {
	case errors.Is(err, services.ErrChatNotFound):
		respondChatNotFound(w)
	case err != nil:
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to load messages", nil, err)
	default:
		utils.RespondWithJSON(w, http.StatusOK, dtos.NewMessagesFromModels(msgs, c.publicBaseURL))
	}
}

func (c *ChatController) send(w http.ResponseWriter, r *http.Request, userID, chatID uuid.UUID) {
	var req dtos.SendMessageRequest
	if !shared_dtos.DecodeAndValidate(w, r, validate, &req) {
		return
	}

	var loc *services.Location
	if req.Lat != nil && req.Lon != nil {
		loc = &services.Location{Lat: *req.Lat, Lon: *req.Lon}
	}

	reply, err := c.chatService.SendMessage(r.Context(), userID, chatID, req.Text, loc)
	switch {
	case errors.Is(err, services.ErrChatNotFound):
		respondChatNotFound(w)
	case err != nil:
		utils.HandleAppError(w, err)
	default:
		utils.RespondWithJSON(w, http.StatusOK, dtos.SendMessageResponse{OK: true, Reply: reply})
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw, ok := middleware.UserIDFromContext(r.Context())
	if ok {
		if id, err := uuid.Parse(raw); err == nil {
			return id, true
		}
	}
	utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing user ID in context", nil)
	return uuid.Nil, false
}

func respondChatNotFound(w http.ResponseWriter) {
	utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Chat not found", nil)
}
