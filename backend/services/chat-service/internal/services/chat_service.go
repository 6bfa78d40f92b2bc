package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/katara/mono-repo/backend/shared/go-models"
	"github.com/katara/mono-repo/backend/shared/go-repositories"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

const (
	SystemPrompt = "Eres Katara, un asistente inteligente de reciclaje y sostenibilidad en Guayaquil, Ecuador. " +
		"Hablas en español claro, cercano y práctico. " +
		"Nunca menciones modelos, APIs, ni detalles internos. " +
		"Si no estás segura, pregunta una aclaración corta y luego sugiere una opción segura."

	// HistoryWindow is how many stored messages are sent as context.
	HistoryWindow = 20
)

var ErrChatNotFound = errors.New("chat_not_found")

type Location struct {
	Lat float64
	Lon float64
}

type ChatService interface {
	// ListChats returns the user's chats, most recent first. A user with no
	// chats gets the default one created.
	ListChats(ctx context.Context, userID uuid.UUID) ([]*models.Chat, error)
	CreateChat(ctx context.Context, userID uuid.UUID, title string) (*models.Chat, error)
	// DefaultChat returns the user's oldest chat, creating it if needed.
	DefaultChat(ctx context.Context, userID uuid.UUID) (*models.Chat, error)
	// Messages returns ErrChatNotFound unless userID owns the chat.
	Messages(ctx context.Context, userID, chatID uuid.UUID) ([]*models.ChatMessage, error)
	// SendMessage stores the user's text, asks the LLM and stores its reply.
	SendMessage(ctx context.Context, userID, chatID uuid.UUID, text string, loc *Location) (string, error)
}

type chatService struct {
	repo repositories.ChatRepository
	llm  LLMClient
	now  func() time.Time
}

func NewChatService(repo repositories.ChatRepository, llm LLMClient, now func() time.Time) ChatService {
	if now == nil {
		now = time.Now
	}
	return &chatService{repo: repo, llm: llm, now: now}
}

func (s *chatService) ListChats(ctx context.Context, userID uuid.UUID) ([]*models.Chat, error) {
	chats, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(chats) > 0 {
		return chats, nil
	}
	c, err := s.DefaultChat(ctx, userID)
	if err != nil {
		return nil, err
	}
	return []*models.Chat{c}, nil
}

func (s *chatService) CreateChat(ctx context.Context, userID uuid.UUID, title string) (*models.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = models.DefaultChatTitle
	}
	now := s.now().UTC()
	c := &models.Chat{UserID: userID, Title: title, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return c, nil
}

func (s *chatService) DefaultChat(ctx context.Context, userID uuid.UUID) (*models.Chat, error) {
	c, err := s.repo.FirstByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}
	return s.CreateChat(ctx, userID, models.DefaultChatTitle)
}

func (s *chatService) Messages(ctx context.Context, userID, chatID uuid.UUID) ([]*models.ChatMessage, error) {
	if err := s.checkOwner(ctx, userID, chatID); err != nil {
		return nil, err
	}
	msgs, err := s.repo.ListMessages(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []*models.ChatMessage{}
	}
	return msgs, nil
}

func (s *chatService) SendMessage(ctx context.Context, userID, chatID uuid.UUID, text string, loc *Location) (string, error) {
	if err := s.checkOwner(ctx, userID, chatID); err != nil {
		return "", err
	}

	if err := s.store(ctx, chatID, models.MessageRoleUser, strings.TrimSpace(text)); err != nil {
		return "", err
	}

	history, err := s.repo.RecentMessages(ctx, chatID, HistoryWindow)
	if err != nil {
		return "", err
	}

	reply, err := s.llm.Complete(ctx, buildContext(history, loc))
	if err != nil {
		utils.Logger.WithError(err).WithField("chat_id", chatID).Error("LLM completion failed")
		return "", &utils.AppError{
			StatusCode: http.StatusBadGateway,
			Code:       utils.ErrCodeExternalServiceFailure,
			Message:    "Assistant is unavailable, try again later",
			Err:        fmt.Errorf("%w: %v", utils.ErrExternalServiceFailure, err),
		}
	}

	if err := s.store(ctx, chatID, models.MessageRoleAssistant, reply); err != nil {
		return "", err
	}
	return reply, nil
}

func (s *chatService) checkOwner(ctx context.Context, userID, chatID uuid.UUID) error {
	c, err := s.repo.GetOwned(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrChatNotFound
	}
	return nil
}

func (s *chatService) store(ctx context.Context, chatID uuid.UUID, role models.MessageRole, content string) error {
	now := s.now().UTC()
	msg := &models.ChatMessage{ChatID: chatID, Role: role, Content: content, CreatedAt: now}
	if err := s.repo.AddMessage(ctx, msg); err != nil {
		return fmt.Errorf("store %s message: %w", role, err)
	}
	return s.repo.Touch(ctx, chatID, now)
}

// buildContext: system prompt, optional location, then the stored history.
func buildContext(history []*models.ChatMessage, loc *Location) []ChatTurn {
	turns := make([]ChatTurn, 0, len(history)+2)
	turns = append(turns, ChatTurn{Role: models.MessageRoleSystem, Content: SystemPrompt})
	if loc != nil {
		turns = append(turns, ChatTurn{
			Role: models.MessageRoleSystem,
			Content: fmt.Sprintf("Ubicación aproximada del usuario: lat=%s, lon=%s.",
				strconv.FormatFloat(loc.Lat, 'f', -1, 64), strconv.FormatFloat(loc.Lon, 'f', -1, 64)),
		})
	}
	for _, m := range history {
		if m.Role == models.MessageRoleUser || m.Role == models.MessageRoleAssistant {
			turns = append(turns, ChatTurn{Role: m.Role, Content: m.Content})
		}
	}
	return turns
}
