package postgres

import (
	"context"
	"database/sql"
	"time"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	query := `INSERT INTO reviews (listing_id, user_id, rating, body, created_on) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	rv.CreatedOn = time.Now().UTC()
	return r.db.QueryRowContext(ctx, query, rv.ListingID, rv.UserID, rv.Rating, rv.Body, rv.CreatedOn).Scan(&rv.ID)
}

func (r *reviewRepository) ListByListing(ctx context.Context, listingID int32) ([]domain.Review, error) {
	query := `SELECT r.id, r.listing_id, r.user_id, TRIM(u.first_name || ' ' || u.last_name), r.rating, r.body, r.created_on
	          FROM reviews r JOIN users u ON u.id = r.user_id
	          WHERE r.listing_id = $1 ORDER BY r.created_on DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ListingID, &rv.UserID, &rv.ReviewerName, &rv.Rating, &rv.Body, &rv.CreatedOn); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
