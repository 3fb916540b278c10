package postgres

import (
	"context"
	"database/sql"
	"time"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/repository"
)

type contentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) repository.ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Get(ctx context.Context, key string) (*domain.SiteContent, error) {
	c := &domain.SiteContent{}
	var updatedBy sql.NullInt32
	err := r.db.QueryRowContext(ctx, `SELECT key, body, updated_by, updated_on FROM site_content WHERE key = $1`, key).
		Scan(&c.Key, &c.Body, &updatedBy, &c.UpdatedOn)
	if err != nil {
		return nil, notFound(err)
	}
	if updatedBy.Valid {
		id := updatedBy.Int32
		c.UpdatedBy = &id
	}
	return c, nil
}

func (r *contentRepository) Upsert(ctx context.Context, c *domain.SiteContent) error {
	query := `INSERT INTO site_content (key, body, updated_by, updated_on) VALUES ($1, $2, $3, $4)
	          ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_by = EXCLUDED.updated_by, updated_on = EXCLUDED.updated_on`
	c.UpdatedOn = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, c.Key, c.Body, nullableID(c.UpdatedBy), c.UpdatedOn)
	return err
}
