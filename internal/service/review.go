package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/repository"
)

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	listingRepo repository.ListingRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, listingRepo repository.ListingRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, listingRepo: listingRepo}
}

func (s *reviewService) Submit(ctx context.Context, actor domain.Actor, listingID, rating int32, text string) (*domain.Review, error) {
	if actor.Role != domain.UserRoleRenter {
		return nil, ErrRentersOnly
	}
	text = strings.TrimSpace(text)
	if rating < 1 || rating > 5 || text == "" {
		return nil, ErrInvalidReview
	}
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	r := &domain.Review{ListingID: listingID, UserID: actor.UserID, Rating: rating, Body: text}
	if err := s.reviewRepo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *reviewService) List(ctx context.Context, listingID int32) (*ReviewList, error) {
	reviews, err := s.reviewRepo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	out := &ReviewList{Reviews: reviews, Count: len(reviews)}
	if out.Reviews == nil {
		out.Reviews = []domain.Review{}
	}
	if len(reviews) > 0 {
		var sum int32
		for _, r := range reviews {
			sum += r.Rating
		}
		out.AverageRating = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}
	return out, nil
}
