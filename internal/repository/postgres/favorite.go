package postgres

import (
	"context"
	"database/sql"

	"hazel-marketplace/internal/repository"
)

type favoriteRepository struct {
	db *sql.DB
}

func NewFavoriteRepository(db *sql.DB) repository.FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Add(ctx context.Context, userID, listingID int32) error {
	query := `INSERT INTO favorites (user_id, listing_id) VALUES ($1, $2) ON CONFLICT (user_id, listing_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, userID, listingID)
	return err
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, listingID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2`, userID, listingID)
	return err
}

func (r *favoriteRepository) ListIDs(ctx context.Context, userID int32) ([]int32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT listing_id FROM favorites WHERE user_id = $1 ORDER BY created_on, listing_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
