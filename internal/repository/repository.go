package repository

import (
	"context"
	"errors"
	"time"

	"hazel-marketplace/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("record already exists")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id int32, passwordHash string) error
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int32, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
}

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id int32) (*domain.Listing, error)
	// GetByIDs returns the listings that still exist, in no particular order.
	GetByIDs(ctx context.Context, ids []int32) ([]domain.Listing, error)
	Update(ctx context.Context, listing *domain.Listing) error
	SetAvailability(ctx context.Context, id int32, available bool) error
	Delete(ctx context.Context, id int32) error
	// Search returns one page of listings matching filter and the total match count.
	Search(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, int32, error)
	Count(ctx context.Context) (int32, error)
}

type FavoriteRepository interface {
	// Add is a no-op when the favorite already exists.
	Add(ctx context.Context, userID, listingID int32) error
	Remove(ctx context.Context, userID, listingID int32) error
	// ListIDs returns favorited listing ids, oldest favorite first.
	ListIDs(ctx context.Context, userID int32) ([]int32, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByListing(ctx context.Context, listingID int32) ([]domain.Review, error)
}

type TransactionRepository interface {
	// CreateOrder inserts every transaction of one checkout atomically.
	CreateOrder(ctx context.Context, txs []domain.Transaction) error
	GetByID(ctx context.Context, id int32) (*domain.Transaction, error)
	ListByOrderRef(ctx context.Context, orderRef string) ([]domain.Transaction, error)
	ListByRenter(ctx context.Context, renterID int32) ([]domain.Transaction, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Transaction, error)
	UpdateStatus(ctx context.Context, id int32, status domain.RentalStatus, completedOn *time.Time) error
	// MarkOverdue moves Active rentals that ended before today to Overdue.
	MarkOverdue(ctx context.Context, today string) (int64, error)
	// ListActiveEndingOn returns Active rentals whose last day is date.
	ListActiveEndingOn(ctx context.Context, date string) ([]domain.Transaction, error)
	CountActive(ctx context.Context) (int32, error)
}

type ChatRepository interface {
	FindThread(ctx context.Context, renterID, ownerID int32, listingID *int32) (*domain.ChatThread, error)
	CreateThread(ctx context.Context, thread *domain.ChatThread) error
	GetThread(ctx context.Context, id int32) (*domain.ChatThread, error)
	ListThreadSummaries(ctx context.Context, userID int32) ([]domain.ThreadSummary, error)
	CreateMessage(ctx context.Context, msg *domain.ChatMessage) error
	ListMessages(ctx context.Context, threadID int32) ([]domain.ChatMessage, error)
	// MarkRead marks messages in threadID sent by anyone but readerID as read.
	MarkRead(ctx context.Context, threadID, readerID int32) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

type ContentRepository interface {
	Get(ctx context.Context, key string) (*domain.SiteContent, error)
	Upsert(ctx context.Context, content *domain.SiteContent) error
}
