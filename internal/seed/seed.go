// Package seed loads bootstrap accounts and demo listings from YAML. Admin
// accounts cannot sign up, so the first admin is always created here.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/repository"
	"hazel-marketplace/internal/security"
)

type User struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Phone     string `yaml:"phone"`
	Address   string `yaml:"address"`
	Role      string `yaml:"role"`
}

type Listing struct {
	OwnerEmail       string   `yaml:"owner_email"`
	Category         string   `yaml:"category"`
	Title            string   `yaml:"title"`
	Description      string   `yaml:"description"`
	PricePerDayCents int64    `yaml:"price_per_day_cents"`
	ImageURL         string   `yaml:"image_url"`
	Tags             []string `yaml:"tags"`
	OwnerTerms       string   `yaml:"owner_terms"`
}

type Data struct {
	Users    []User    `yaml:"users"`
	Listings []Listing `yaml:"listings"`
}

// Result counts what Apply created; existing rows are skipped.
type Result struct {
	UsersCreated    int
	ListingsCreated int
}

type Seeder struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	listings   repository.ListingRepository
}

func NewSeeder(users repository.UserRepository, categories repository.CategoryRepository, listings repository.ListingRepository) *Seeder {
	return &Seeder{users: users, categories: categories, listings: listings}
}

func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &data, nil
}

// Apply is safe to run repeatedly.
func (s *Seeder) Apply(ctx context.Context, data *Data) (*Result, error) {
	res := &Result{}
	owners := make(map[string]int32)

	for _, u := range data.Users {
		id, created, err := s.ensureUser(ctx, u)
		if err != nil {
			return res, err
		}
		owners[strings.ToLower(u.Email)] = id
		if created {
			res.UsersCreated++
		}
	}

	for _, l := range data.Listings {
		ownerID, ok := owners[strings.ToLower(l.OwnerEmail)]
		if !ok {
			return res, fmt.Errorf("listing %q: owner %s is not in the seed users", l.Title, l.OwnerEmail)
		}
		created, err := s.ensureListing(ctx, ownerID, l)
		if err != nil {
			return res, err
		}
		if created {
			res.ListingsCreated++
		}
	}

	logger.Info("Seed applied", "usersCreated", res.UsersCreated, "listingsCreated", res.ListingsCreated)
	return res, nil
}

func (s *Seeder) ensureUser(ctx context.Context, u User) (int32, bool, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		logger.Debug("Seed user exists", "email", email)
		return existing.ID, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, false, err
	}

	role := domain.UserRole(u.Role)
	switch role {
	case domain.UserRoleRenter, domain.UserRoleOwner, domain.UserRoleAdmin:
	default:
		return 0, false, fmt.Errorf("user %s: invalid role %q", email, u.Role)
	}
	if err := security.CheckNewPassword(u.Password, u.Password); err != nil {
		return 0, false, fmt.Errorf("user %s: %w", email, err)
	}
	hash, err := security.HashPassword(u.Password)
	if err != nil {
		return 0, false, err
	}

	user := &domain.User{
		Email:              email,
		PasswordHash:       hash,
		Role:               role,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Phone:              u.Phone,
		Address:            u.Address,
		VerificationStatus: domain.VerificationVerified,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return 0, false, fmt.Errorf("failed to create user %s: %w", email, err)
	}
	logger.Info("Seed user created", "email", email, "role", role, "userID", user.ID)
	return user.ID, true, nil
}

func (s *Seeder) ensureListing(ctx context.Context, ownerID int32, l Listing) (bool, error) {
	mine, _, err := s.listings.Search(ctx, domain.ListingFilter{OwnerID: ownerID, Term: l.Title, IncludeInactive: true})
	if err != nil {
		return false, err
	}
	for _, m := range mine {
		if strings.EqualFold(m.Title, l.Title) {
			return false, nil
		}
	}

	cat, err := s.categories.GetByName(ctx, l.Category)
	if err != nil {
		return false, fmt.Errorf("listing %q: category %q: %w", l.Title, l.Category, err)
	}
	listing := &domain.Listing{
		OwnerID:          ownerID,
		CategoryID:       cat.ID,
		Title:            l.Title,
		Description:      l.Description,
		PricePerDayCents: l.PricePerDayCents,
		ImageURL:         l.ImageURL,
		Tags:             l.Tags,
		OwnerTerms:       l.OwnerTerms,
		Available:        true,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return false, fmt.Errorf("failed to create listing %q: %w", l.Title, err)
	}
	return true, nil
}
