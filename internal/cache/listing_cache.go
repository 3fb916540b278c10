package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/repository"

	"github.com/redis/go-redis/v9"
)

const (
	notFoundMarker = "notfound"
	notFoundTTL    = time.Minute
	categoriesKey  = "categories:all"
)

func listingKey(id int32) string {
	return fmt.Sprintf("listing:%d", id)
}

// CachedListingRepository is a read-through cache over single-listing
// lookups. Searches always go to the database; writes invalidate.
type CachedListingRepository struct {
	repository.ListingRepository
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedListingRepository(realRepo repository.ListingRepository, rdb *redis.Client, ttl time.Duration) *CachedListingRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedListingRepository{ListingRepository: realRepo, redis: rdb, ttl: ttl}
}

func (c *CachedListingRepository) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	key := listingKey(id)

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			logger.CacheResult(key, true, nil)
			return nil, repository.ErrNotFound
		}
		var l domain.Listing
		if err := json.Unmarshal(data, &l); err != nil {
			logger.Warn("Failed to unmarshal cached listing, continuing with DB", "key", key, "error", err)
			break
		}
		logger.CacheResult(key, true, nil)
		return &l, nil
	case errors.Is(err, redis.Nil):
		logger.CacheResult(key, false, nil)
	default:
		logger.CacheResult(key, false, err)
	}

	l, err := c.ListingRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if setErr := c.redis.Set(ctx, key, notFoundMarker, notFoundTTL).Err(); setErr != nil {
				logger.Warn("Failed to cache notfound", "key", key, "error", setErr)
			}
		}
		return nil, err
	}

	payload, err := json.Marshal(l)
	if err != nil {
		logger.Warn("Failed to marshal listing", "key", key, "error", err)
		return l, nil
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.Warn("Failed to cache listing", "key", key, "error", err)
	}
	return l, nil
}

func (c *CachedListingRepository) invalidate(ctx context.Context, id int32) {
	if err := c.redis.Del(ctx, listingKey(id)).Err(); err != nil {
		logger.Warn("Failed to delete listing cache", "listingID", id, "error", err)
	}
}

func (c *CachedListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	if err := c.ListingRepository.Create(ctx, l); err != nil {
		return err
	}
	// clears a notfound marker left by an earlier lookup
	c.invalidate(ctx, l.ID)
	return nil
}

// Writes invalidate after the database call so a concurrent read cannot
// re-cache the old row.
func (c *CachedListingRepository) Update(ctx context.Context, l *domain.Listing) error {
	err := c.ListingRepository.Update(ctx, l)
	c.invalidate(ctx, l.ID)
	return err
}

func (c *CachedListingRepository) SetAvailability(ctx context.Context, id int32, available bool) error {
	err := c.ListingRepository.SetAvailability(ctx, id, available)
	c.invalidate(ctx, id)
	return err
}

func (c *CachedListingRepository) Delete(ctx context.Context, id int32) error {
	err := c.ListingRepository.Delete(ctx, id)
	c.invalidate(ctx, id)
	return err
}

// CachedCategoryRepository caches the category list, which only changes
// with a schema migration.
type CachedCategoryRepository struct {
	repository.CategoryRepository
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedCategoryRepository(realRepo repository.CategoryRepository, rdb *redis.Client, ttl time.Duration) *CachedCategoryRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedCategoryRepository{CategoryRepository: realRepo, redis: rdb, ttl: ttl}
}

func (c *CachedCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	data, err := c.redis.Get(ctx, categoriesKey).Bytes()
	if err == nil {
		var cats []domain.Category
		if jsonErr := json.Unmarshal(data, &cats); jsonErr == nil {
			logger.CacheResult(categoriesKey, true, nil)
			return cats, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logger.CacheResult(categoriesKey, false, err)
	}

	cats, err := c.CategoryRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(cats); err == nil {
		if err := c.redis.Set(ctx, categoriesKey, payload, c.ttl).Err(); err != nil {
			logger.Warn("Failed to cache categories", "error", err)
		}
	}
	return cats, nil
}
