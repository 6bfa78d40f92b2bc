package dtos

import (
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/katara/mono-repo/backend/shared/go-models"
)

type ChatResponse struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

func NewChatsFromModels(chats []*models.Chat) []ChatResponse {
	out := make([]ChatResponse, 0, len(chats))
	for _, c := range chats {
		out = append(out, ChatResponse{ID: c.ID, Title: c.Title})
	}
	return out
}

type CreateChatRequest struct {
	Title string `json:"title" validate:"max=120"`
}

type CreateChatResponse struct {
	OK     bool      `json:"ok"`
	ChatID uuid.UUID `json:"chat_id"`
}

type MessageResponse struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessagesFromModels resolves stored image paths to
// <baseURL>/uploads/chat/<file>.
func NewMessagesFromModels(msgs []*models.ChatMessage, baseURL string) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp := MessageResponse{
			ID:        m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
		if m.ImagePath != nil && *m.ImagePath != "" {
			url := baseURL + "/uploads/chat/" + path.Base(*m.ImagePath)
			resp.ImageURL = &url
		}
		out = append(out, resp)
	}
	return out
}

// SendMessageRequest carries an optional location; lat and lon are only
// used when both are present.
type SendMessageRequest struct {
	Text string   `json:"text" validate:"required,max=4000"`
	Lat  *float64 `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lon  *float64 `json:"lon" validate:"omitempty,min=-180,max=180"`
}

type SendMessageResponse struct {
	OK       bool    `json:"ok"`
	Reply    string  `json:"reply"`
	ImageURL *string `json:"image_url"`
}
