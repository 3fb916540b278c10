package service

import (
	"context"
	"errors"
	"time"

	"hazel-marketplace/internal/cart"
	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/pricing"
	"hazel-marketplace/internal/repository"
)

type cartService struct {
	store       cart.Store
	listingRepo repository.ListingRepository
	prices      pricing.Table
	now         func() time.Time
}

func NewCartService(store cart.Store, listingRepo repository.ListingRepository, prices pricing.Table) CartService {
	return &cartService{
		store:       store,
		listingRepo: listingRepo,
		prices:      prices,
		now:         time.Now,
	}
}

func (s *cartService) view(ctx context.Context, userID int32) (*domain.Cart, error) {
	lines, err := s.store.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return &domain.Cart{UserID: userID, Lines: lines, Summary: pricing.Summarize(lines)}, nil
}

func (s *cartService) Get(ctx context.Context, actor domain.Actor) (*domain.Cart, error) {
	if actor.Role != domain.UserRoleRenter {
		return nil, ErrRentersOnly
	}
	return s.view(ctx, actor.UserID)
}

func (s *cartService) AddItem(ctx context.Context, actor domain.Actor, in AddToCartInput) (*domain.Cart, error) {
	logger.EnterMethod("cartService.AddItem", "userID", actor.UserID, "listingID", in.ListingID, "days", in.DurationDays)

	if actor.Role != domain.UserRoleRenter {
		logger.ExitMethodWithError("cartService.AddItem", ErrRentersOnly, "role", actor.Role)
		return nil, ErrRentersOnly
	}

	listing, err := s.listingRepo.GetByID(ctx, in.ListingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if !listing.Available {
		return nil, ErrListingNotFound
	}
	if listing.OwnerID == actor.UserID {
		return nil, ErrOwnItem
	}

	if in.StartDate == "" {
		return nil, ErrStartDateRequired
	}
	start, err := pricing.ParseDate(in.StartDate)
	if err != nil {
		return nil, invalid("%v", err)
	}
	if start.Before(pricing.Today(s.now())) {
		return nil, ErrStartDateInPast
	}

	total, err := pricing.RentalCost(listing.PricePerDayCents, in.DurationDays)
	if err != nil {
		return nil, invalid("%v", err)
	}
	option := in.DeliveryOption
	if option == "" {
		option = domain.DeliveryOptionPickup
	}
	fee, err := s.prices.DeliveryFee(option)
	if err != nil {
		return nil, invalid("%v", err)
	}

	line := domain.CartLine{
		ListingID:          listing.ID,
		Title:              listing.Title,
		ImageURL:           listing.ImageURL,
		OwnerID:            listing.OwnerID,
		OwnerName:          listing.OwnerName,
		OwnerTerms:         listing.OwnerTerms,
		PricePerDayCents:   listing.PricePerDayCents,
		RentalDurationDays: in.DurationDays,
		RentalStartDate:    start.Format(pricing.DateLayout),
		DeliveryOption:     option,
		DeliveryFeeCents:   fee,
		RentalTotalCents:   total,
	}
	if err := s.store.Add(ctx, actor.UserID, line); err != nil {
		logger.ExitMethodWithError("cartService.AddItem", err)
		return nil, err
	}

	logger.ExitMethod("cartService.AddItem", "listingID", listing.ID, "totalCents", total)
	return s.view(ctx, actor.UserID)
}

func (s *cartService) RemoveItem(ctx context.Context, actor domain.Actor, listingID int32) (*domain.Cart, error) {
	if actor.Role != domain.UserRoleRenter {
		return nil, ErrRentersOnly
	}
	if err := s.store.Remove(ctx, actor.UserID, listingID); err != nil {
		return nil, err
	}
	return s.view(ctx, actor.UserID)
}

func (s *cartService) Clear(ctx context.Context, actor domain.Actor) error {
	if actor.Role != domain.UserRoleRenter {
		return ErrRentersOnly
	}
	return s.store.Clear(ctx, actor.UserID)
}
