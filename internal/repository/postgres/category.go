package postgres

import (
	"context"
	"database/sql"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/repository"
)

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	c := &domain.Category{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE LOWER(name) = LOWER($1)`, name).Scan(&c.ID, &c.Name)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}
