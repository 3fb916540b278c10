package service

import (
	"context"
	"errors"
	"strings"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/repository"
)

type profileService struct {
	userRepo repository.UserRepository
}

func NewProfileService(userRepo repository.UserRepository) ProfileService {
	return &profileService{userRepo: userRepo}
}

// SplitFullName splits on the first space: "Maria Clara Santos" gives
// "Maria" and "Clara Santos".
func SplitFullName(full string) (first, last string) {
	full = strings.Join(strings.Fields(full), " ")
	first, last, _ = strings.Cut(full, " ")
	return first, last
}

func (s *profileService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *profileService) UpdateProfile(ctx context.Context, userID int32, in ProfileUpdate) (*domain.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	if strings.TrimSpace(in.FullName) != "" {
		first, last = SplitFullName(in.FullName)
	}
	if first == "" {
		return nil, invalid("first name is required")
	}

	u.FirstName = first
	u.LastName = last
	u.Phone = strings.TrimSpace(in.Phone)
	u.Location = strings.TrimSpace(in.Location)
	u.Address = strings.TrimSpace(in.Address)
	if pic := strings.TrimSpace(in.ProfilePicURL); pic != "" {
		u.ProfilePicURL = pic
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *profileService) ListProfiles(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.userRepo.List(ctx)
}
