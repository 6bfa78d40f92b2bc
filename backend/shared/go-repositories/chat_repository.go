package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/katara/mono-repo/backend/shared/go-models"
)

type ChatRepository interface {
	Create(ctx context.Context, c *models.Chat) error
	// GetOwned returns (nil, nil) unless the chat exists and belongs to userID.
	GetOwned(ctx context.Context, chatID, userID uuid.UUID) (*models.Chat, error)
	// ListByUser orders by most recently active first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Chat, error)
	// FirstByUser returns the user's oldest chat, or nil.
	FirstByUser(ctx context.Context, userID uuid.UUID) (*models.Chat, error)
	Touch(ctx context.Context, chatID uuid.UUID, at time.Time) error

	AddMessage(ctx context.Context, m *models.ChatMessage) error
	// ListMessages returns the whole history, oldest first.
	ListMessages(ctx context.Context, chatID uuid.UUID) ([]*models.ChatMessage, error)
	// RecentMessages returns the newest `limit` messages, oldest first.
	RecentMessages(ctx context.Context, chatID uuid.UUID, limit int) ([]*models.ChatMessage, error)
}

type chatRepository struct {
	db DB
}

func NewChatRepository(db DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, c *models.Chat) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	_, err := r.db.Exec(ctx, `
        INSERT INTO chats (id, user_id, title, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
    `, c.ID, c.UserID, c.Title, c.CreatedAt, c.UpdatedAt)
	return err
}

const selectChat = `SELECT id, user_id, title, created_at, updated_at FROM chats`

func (r *chatRepository) GetOwned(ctx context.Context, chatID, userID uuid.UUID) (*models.Chat, error) {
	row := r.db.QueryRow(ctx, selectChat+" WHERE id=$1 AND user_id=$2", chatID, userID)
	return scanChat(row)
}

func (r *chatRepository) FirstByUser(ctx context.Context, userID uuid.UUID) (*models.Chat, error) {
	row := r.db.QueryRow(ctx, selectChat+" WHERE user_id=$1 ORDER BY created_at ASC, id ASC LIMIT 1", userID)
	return scanChat(row)
}

func (r *chatRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Chat, error) {
	rows, err := r.db.Query(ctx, selectChat+" WHERE user_id=$1 ORDER BY updated_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *chatRepository) Touch(ctx context.Context, chatID uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE chats SET updated_at=$2 WHERE id=$1`, chatID, at)
	return err
}

func (r *chatRepository) AddMessage(ctx context.Context, m *models.ChatMessage) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return r.db.QueryRow(ctx, `
        INSERT INTO chat_messages (chat_id, role, content, image_path, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, m.ChatID, string(m.Role), m.Content, m.ImagePath, m.CreatedAt).Scan(&m.ID)
}

const selectMessage = `SELECT id, chat_id, role, content, image_path, created_at FROM chat_messages`

func (r *chatRepository) ListMessages(ctx context.Context, chatID uuid.UUID) ([]*models.ChatMessage, error) {
	return r.queryMessages(ctx, selectMessage+" WHERE chat_id=$1 ORDER BY id ASC", chatID)
}

func (r *chatRepository) RecentMessages(ctx context.Context, chatID uuid.UUID, limit int) ([]*models.ChatMessage, error) {
	msgs, err := r.queryMessages(ctx, selectMessage+" WHERE chat_id=$1 ORDER BY id DESC LIMIT $2", chatID, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *chatRepository) queryMessages(ctx context.Context, q string, args ...any) ([]*models.ChatMessage, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		var role string
		if err := rows.Scan(&m.ID, &m.ChatID, &role, &m.Content, &m.ImagePath, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = models.MessageRole(role)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func scanChat(row pgx.Row) (*models.Chat, error) {
	var c models.Chat
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
