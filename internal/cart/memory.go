package cart

import (
	"context"
	"sync"

	"hazel-marketplace/internal/domain"
)

type memoryStore struct {
	mu    sync.Mutex
	carts map[int32][]domain.CartLine
}

// NewMemoryStore keeps carts in process memory; they are lost on restart.
func NewMemoryStore() Store {
	return &memoryStore{carts: make(map[int32][]domain.CartLine)}
}

func (s *memoryStore) Lines(_ context.Context, userID int32) ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[userID]
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out, nil
}

func (s *memoryStore) Add(_ context.Context, userID int32, line domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if containsListing(s.carts[userID], line.ListingID) {
		return ErrAlreadyInCart
	}
	s.carts[userID] = append(s.carts[userID], line)
	return nil
}

func (s *memoryStore) Remove(_ context.Context, userID, listingID int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := without(s.carts[userID], listingID)
	if len(lines) == 0 {
		delete(s.carts, userID)
		return nil
	}
	s.carts[userID] = lines
	return nil
}

func (s *memoryStore) Clear(_ context.Context, userID int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}
