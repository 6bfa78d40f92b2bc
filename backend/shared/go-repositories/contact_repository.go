package repositories

import (
	"context"
	"time"

	"github.com/katara/mono-repo/backend/shared/go-models"
)

type ContactRepository interface {
	Create(ctx context.Context, m *models.ContactMessage) error
}

type contactRepository struct {
	db DB
}

func NewContactRepository(db DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, m *models.ContactMessage) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return r.db.QueryRow(ctx, `
        INSERT INTO contacts (email, message, created_at)
        VALUES ($1, $2, $3)
        RETURNING id
    `, m.Email, m.Message, m.CreatedAt).Scan(&m.ID)
}
