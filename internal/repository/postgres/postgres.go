package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/repository"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

//go:embed schema.sql
var schemaSQL string

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.CategoryRepository
	repository.ListingRepository
	repository.FavoriteRepository
	repository.ReviewRepository
	repository.TransactionRepository
	repository.ChatRepository
	repository.NotificationRepository
	repository.ContentRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		CategoryRepository:     NewCategoryRepository(db),
		ListingRepository:      NewListingRepository(db),
		FavoriteRepository:     NewFavoriteRepository(db),
		ReviewRepository:       NewReviewRepository(db),
		TransactionRepository:  NewTransactionRepository(db),
		ChatRepository:         NewChatRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		ContentRepository:      NewContentRepository(db),
	}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	logger.DatabaseCall("MIGRATE", "schema.sql")
	_, err := db.ExecContext(ctx, schemaSQL)
	logger.DatabaseResult("MIGRATE", 0, err)
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// notFound maps sql.ErrNoRows to repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

// duplicate maps a unique constraint violation to repository.ErrDuplicate.
func duplicate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pqErr.Constraint)
	}
	return err
}

// requireRows turns an update that touched nothing into ErrNotFound.
func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}
