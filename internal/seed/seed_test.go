package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/repository"
	"hazel-marketplace/internal/security"
)

type MockUserRepo struct {
	mock.Mock
	repository.UserRepository
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	user.ID = 42
	return args.Error(0)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockCategoryRepo struct {
	mock.Mock
	repository.CategoryRepository
}

func (m *MockCategoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

type MockListingRepo struct {
	mock.Mock
	repository.ListingRepository
}

func (m *MockListingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepo) Search(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Listing), args.Get(1).(int32), args.Error(2)
}

const seedYAML = `
users:
  - email: Admin@Hazel.ph
    password: admin-password
    first_name: Site
    last_name: Admin
    role: admin
listings:
  - owner_email: admin@hazel.ph
    category: Outdoor
    title: Camping Tent
    description: Four person tent
    price_per_day_cents: 1000
    tags: [camping]
`

func writeSeed(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSeeder_Apply(t *testing.T) {
	ctx := context.Background()
	data, err := Load(writeSeed(t, seedYAML))
	require.NoError(t, err)

	t.Run("Creates missing rows", func(t *testing.T) {
		users, cats, listings := new(MockUserRepo), new(MockCategoryRepo), new(MockListingRepo)
		users.On("GetByEmail", ctx, "admin@hazel.ph").Return(nil, repository.ErrNotFound)
		users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Role == domain.UserRoleAdmin && security.ComparePassword(u.PasswordHash, "admin-password")
		})).Return(nil)
		listings.On("Search", ctx, domain.ListingFilter{OwnerID: 42, Term: "Camping Tent", IncludeInactive: true}).
			Return([]domain.Listing{}, int32(0), nil)
		cats.On("GetByName", ctx, "Outdoor").Return(&domain.Category{ID: 5, Name: "Outdoor"}, nil)
		listings.On("Create", ctx, mock.MatchedBy(func(l *domain.Listing) bool {
			return l.OwnerID == 42 && l.CategoryID == 5 && l.Available
		})).Return(nil)

		res, err := NewSeeder(users, cats, listings).Apply(ctx, data)
		require.NoError(t, err)
		assert.Equal(t, &Result{UsersCreated: 1, ListingsCreated: 1}, res)
	})

	t.Run("Second run is a no-op", func(t *testing.T) {
		users, cats, listings := new(MockUserRepo), new(MockCategoryRepo), new(MockListingRepo)
		users.On("GetByEmail", ctx, "admin@hazel.ph").Return(&domain.User{ID: 7}, nil)
		listings.On("Search", ctx, mock.Anything).Return([]domain.Listing{{ID: 1, Title: "camping tent"}}, int32(1), nil)

		res, err := NewSeeder(users, cats, listings).Apply(ctx, data)
		require.NoError(t, err)
		assert.Equal(t, &Result{}, res)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		listings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestSeeder_ApplyRejectsBadData(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown role", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByEmail", ctx, "x@hazel.ph").Return(nil, repository.ErrNotFound)
		_, err := NewSeeder(users, nil, nil).Apply(ctx, &Data{Users: []User{{Email: "x@hazel.ph", Password: "long-enough", Role: "root"}}})
		assert.ErrorContains(t, err, "invalid role")
	})

	t.Run("Listing owner missing", func(t *testing.T) {
		_, err := NewSeeder(nil, nil, nil).Apply(ctx, &Data{Listings: []Listing{{OwnerEmail: "ghost@hazel.ph", Title: "Drill"}}})
		assert.ErrorContains(t, err, "ghost@hazel.ph")
	})
}
