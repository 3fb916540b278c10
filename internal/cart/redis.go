package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"

	"github.com/redis/go-redis/v9"
)

const maxWatchRetries = 5

type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore keeps each cart as one JSON value that expires ttl after
// the last change.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) Store {
	return &redisStore{rdb: rdb, ttl: ttl}
}

func cartKey(userID int32) string {
	return fmt.Sprintf("cart:%d", userID)
}

func (s *redisStore) Lines(ctx context.Context, userID int32) ([]domain.CartLine, error) {
	return s.read(ctx, s.rdb, cartKey(userID))
}

func (s *redisStore) read(ctx context.Context, c redis.Cmdable, key string) ([]domain.CartLine, error) {
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}

// update runs fn inside WATCH/MULTI so concurrent writers to one cart do not
// lose lines.
func (s *redisStore) update(ctx context.Context, userID int32, fn func([]domain.CartLine) ([]domain.CartLine, error)) error {
	key := cartKey(userID)
	txf := func(tx *redis.Tx) error {
		lines, err := s.read(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := fn(lines)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(next) == 0 {
				pipe.Del(ctx, key)
				return nil
			}
			payload, err := json.Marshal(next)
			if err != nil {
				return err
			}
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			logger.Debug("Cart write conflict, retrying", "userID", userID, "attempt", i+1)
			continue
		}
		return err
	}
	return fmt.Errorf("cart update for user %d kept conflicting", userID)
}

func (s *redisStore) Add(ctx context.Context, userID int32, line domain.CartLine) error {
	return s.update(ctx, userID, func(lines []domain.CartLine) ([]domain.CartLine, error) {
		if containsListing(lines, line.ListingID) {
			return nil, ErrAlreadyInCart
		}
		return append(lines, line), nil
	})
}

func (s *redisStore) Remove(ctx context.Context, userID, listingID int32) error {
	return s.update(ctx, userID, func(lines []domain.CartLine) ([]domain.CartLine, error) {
		return without(lines, listingID), nil
	})
}

func (s *redisStore) Clear(ctx context.Context, userID int32) error {
	return s.rdb.Del(ctx, cartKey(userID)).Err()
}
