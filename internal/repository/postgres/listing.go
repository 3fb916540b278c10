package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/repository"

	"github.com/lib/pq"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

const listingSelect = `SELECT l.id, l.owner_id, TRIM(u.first_name || ' ' || u.last_name), u.email, l.category_id, c.name,
	l.title, l.full_title, l.description, l.price_per_day_cents, l.image_url, l.tags, l.tracking_tag_id,
	l.owner_terms, l.available, l.created_on, l.updated_on
	FROM listings l
	JOIN users u ON u.id = l.owner_id
	JOIN categories c ON c.id = l.category_id`

func scanListing(s scanner) (*domain.Listing, error) {
	l := &domain.Listing{}
	err := s.Scan(&l.ID, &l.OwnerID, &l.OwnerName, &l.OwnerEmail, &l.CategoryID, &l.CategoryName,
		&l.Title, &l.FullTitle, &l.Description, &l.PricePerDayCents, &l.ImageURL, pq.Array(&l.Tags), &l.TrackingTagID,
		&l.OwnerTerms, &l.Available, &l.CreatedOn, &l.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if l.Tags == nil {
		l.Tags = []string{}
	}
	return l, nil
}

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	query := `INSERT INTO listings (owner_id, category_id, title, full_title, description, price_per_day_cents, image_url, tags, tracking_tag_id, owner_terms, available, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	now := time.Now().UTC()
	l.CreatedOn = now
	l.UpdatedOn = now
	logger.DatabaseCall("INSERT", "listings", "ownerID", l.OwnerID, "title", l.Title)
	err := r.db.QueryRowContext(ctx, query, l.OwnerID, l.CategoryID, l.Title, l.FullTitle, l.Description, l.PricePerDayCents,
		l.ImageURL, pq.Array(l.Tags), l.TrackingTagID, l.OwnerTerms, l.Available, l.CreatedOn, l.UpdatedOn).Scan(&l.ID)
	logger.DatabaseResult("INSERT", 1, err, "listingID", l.ID)
	return err
}

func (r *listingRepository) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx, listingSelect+` WHERE l.id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

func (r *listingRepository) GetByIDs(ctx context.Context, ids []int32) ([]domain.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, listingSelect+` WHERE l.id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

func (r *listingRepository) Update(ctx context.Context, l *domain.Listing) error {
	query := `UPDATE listings SET category_id=$1, title=$2, full_title=$3, description=$4, price_per_day_cents=$5, image_url=$6,
	          tags=$7, tracking_tag_id=$8, owner_terms=$9, available=$10, updated_on=$11 WHERE id=$12`
	l.UpdatedOn = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, l.CategoryID, l.Title, l.FullTitle, l.Description, l.PricePerDayCents, l.ImageURL,
		pq.Array(l.Tags), l.TrackingTagID, l.OwnerTerms, l.Available, l.UpdatedOn, l.ID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *listingRepository) SetAvailability(ctx context.Context, id int32, available bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE listings SET available=$1, updated_on=$2 WHERE id=$3`, available, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *listingRepository) Delete(ctx context.Context, id int32) error {
	logger.DatabaseCall("DELETE", "listings", "listingID", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err, "listingID", id)
		return err
	}
	return requireRows(res)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern is an ILIKE pattern matching term literally anywhere in a
// value. Backslash is the default LIKE escape character in Postgres.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// searchWhere builds the WHERE clause shared by the page and count queries.
func searchWhere(f domain.ListingFilter) (string, []any) {
	var conds []string
	var args []any

	if !f.IncludeInactive {
		conds = append(conds, "l.available = TRUE")
	}
	if f.OwnerID > 0 {
		args = append(args, f.OwnerID)
		conds = append(conds, fmt.Sprintf("l.owner_id = $%d", len(args)))
	}
	if cat := strings.TrimSpace(f.Category); cat != "" && !strings.EqualFold(cat, "all") {
		args = append(args, cat)
		conds = append(conds, fmt.Sprintf("LOWER(c.name) = LOWER($%d)", len(args)))
	}
	if term := strings.TrimSpace(f.Term); term != "" {
		args = append(args, containsPattern(term))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(l.title ILIKE $%d OR c.name ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(l.tags) AS tag WHERE tag ILIKE $%d))", n, n, n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *listingRepository) Search(ctx context.Context, f domain.ListingFilter) ([]domain.Listing, int32, error) {
	where, args := searchWhere(f)

	var count int32
	countQuery := `SELECT count(*) FROM listings l JOIN categories c ON c.id = l.category_id` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	page, pageSize := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	query := listingSelect + where + ` ORDER BY l.created_on DESC, l.id DESC`
	if pageSize > 0 {
		args = append(args, pageSize, (page-1)*pageSize)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	logger.DatabaseCall("SELECT", "listings search", "category", f.Category, "term", f.Term, "page", page)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	listings, err := collectListings(rows)
	if err != nil {
		return nil, 0, err
	}
	return listings, count, nil
}

func (r *listingRepository) Count(ctx context.Context) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM listings`).Scan(&count)
	return count, err
}

func collectListings(rows *sql.Rows) ([]domain.Listing, error) {
	var listings []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}
