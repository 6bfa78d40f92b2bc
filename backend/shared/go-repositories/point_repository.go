package repositories

import (
	"context"
	"time"

	"github.com/katara/mono-repo/backend/shared/go-models"
)

type PointRepository interface {
	// ListAll returns every point ordered by id.
	ListAll(ctx context.Context) ([]*models.Point, error)
	Count(ctx context.Context) (int, error)
	// CreateBatch inserts all points in one transaction.
	CreateBatch(ctx context.Context, points []*models.Point) error
}

type pointRepository struct {
	db DB
}

func NewPointRepository(db DB) PointRepository {
	return &pointRepository{db: db}
}

func (r *pointRepository) ListAll(ctx context.Context) ([]*models.Point, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, name, address, lat, lon, category, notes, source_url, updated_at
        FROM points
        ORDER BY id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Point
	for rows.Next() {
		var p models.Point
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Address, &p.Lat, &p.Lon,
			&p.Category, &p.Notes, &p.SourceURL, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *pointRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM points`).Scan(&n)
	return n, err
}

func (r *pointRepository) CreateBatch(ctx context.Context, points []*models.Point) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	now := time.Now().UTC()
	for _, p := range points {
		p.UpdatedAt = now
		err := tx.QueryRow(ctx, `
            INSERT INTO points (name, address, lat, lon, category, notes, source_url, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            RETURNING id
        `, p.Name, p.Address, p.Lat, p.Lon, p.Category, p.Notes, p.SourceURL, p.UpdatedAt).Scan(&p.ID)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
