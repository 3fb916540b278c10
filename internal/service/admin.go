package service

import (
	"context"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/repository"
)

type adminService struct {
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	txRepo      repository.TransactionRepository
}

func NewAdminService(userRepo repository.UserRepository, listingRepo repository.ListingRepository, txRepo repository.TransactionRepository) AdminService {
	return &adminService{userRepo: userRepo, listingRepo: listingRepo, txRepo: txRepo}
}

func (s *adminService) Overview(ctx context.Context, actor domain.Actor) (*domain.AdminOverview, error) {
	logger.EnterMethod("adminService.Overview", "adminID", actor.UserID)
	if !actor.IsAdmin() {
		logger.ExitMethodWithError("adminService.Overview", ErrForbidden, "role", actor.Role)
		return nil, ErrForbidden
	}

	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	listings, err := s.listingRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.txRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	out := &domain.AdminOverview{TotalUsers: users, TotalListings: listings, ActiveRentals: active}
	logger.ExitMethod("adminService.Overview", "users", users, "listings", listings, "active", active)
	return out, nil
}
