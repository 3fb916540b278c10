package service

import (
	"context"
	"errors"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/repository"
)

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	listingRepo  repository.ListingRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, listingRepo repository.ListingRepository) FavoriteService {
	return &favoriteService{favoriteRepo: favoriteRepo, listingRepo: listingRepo}
}

func (s *favoriteService) Add(ctx context.Context, userID, listingID int32) error {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListingNotFound
		}
		return err
	}
	return s.favoriteRepo.Add(ctx, userID, listingID)
}

func (s *favoriteService) Remove(ctx context.Context, userID, listingID int32) error {
	return s.favoriteRepo.Remove(ctx, userID, listingID)
}

// List resolves favorites to listings in favoriting order. Favorites whose
// listing no longer exists are skipped.
func (s *favoriteService) List(ctx context.Context, userID int32) ([]domain.Listing, error) {
	ids, err := s.favoriteRepo.ListIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := []domain.Listing{}
	if len(ids) == 0 {
		return out, nil
	}

	listings, err := s.listingRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int32]domain.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}
