package http_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/service"
)

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}
func (m *MockListingService) Browse(ctx context.Context, viewer domain.Actor, q service.BrowseQuery) (*service.ListingPage, error) {
	args := m.Called(ctx, viewer, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListingPage), args.Error(1)
}
func (m *MockListingService) QuickSearch(ctx context.Context, viewer domain.Actor, term string) ([]domain.Listing, error) {
	args := m.Called(ctx, viewer, term)
	return args.Get(0).([]domain.Listing), args.Error(1)
}
func (m *MockListingService) Get(ctx context.Context, viewer domain.Actor, id int32) (*service.ListingDetail, error) {
	args := m.Called(ctx, viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListingDetail), args.Error(1)
}
func (m *MockListingService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Listing, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Listing), args.Error(1)
}
func (m *MockListingService) ListAll(ctx context.Context, actor domain.Actor) ([]domain.Listing, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Listing), args.Error(1)
}
func (m *MockListingService) Create(ctx context.Context, actor domain.Actor, in service.ListingInput) (*domain.Listing, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingService) Update(ctx context.Context, actor domain.Actor, id int32, in service.ListingInput) (*domain.Listing, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingService) Delete(ctx context.Context, actor domain.Actor, id int32) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
func (m *MockListingService) SetAvailability(ctx context.Context, actor domain.Actor, id int32, available bool) (*domain.Listing, error) {
	args := m.Called(ctx, actor, id, available)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingService) StageImage(ctx context.Context, actor domain.Actor, contentType string, r io.Reader) (string, error) {
	args := m.Called(ctx, actor, contentType, r)
	return args.String(0), args.Error(1)
}
func (m *MockListingService) UploadImage(ctx context.Context, actor domain.Actor, id int32, contentType string, r io.Reader) (*domain.Listing, error) {
	args := m.Called(ctx, actor, id, contentType, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Get(ctx context.Context, actor domain.Actor) (*domain.Cart, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}
func (m *MockCartService) AddItem(ctx context.Context, actor domain.Actor, in service.AddToCartInput) (*domain.Cart, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}
func (m *MockCartService) RemoveItem(ctx context.Context, actor domain.Actor, listingID int32) (*domain.Cart, error) {
	args := m.Called(ctx, actor, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}
func (m *MockCartService) Clear(ctx context.Context, actor domain.Actor) error {
	args := m.Called(ctx, actor)
	return args.Error(0)
}

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) PreviewAgreement(ctx context.Context, actor domain.Actor) (string, error) {
	args := m.Called(ctx, actor)
	return args.String(0), args.Error(1)
}
func (m *MockCheckoutService) Checkout(ctx context.Context, actor domain.Actor, in service.CheckoutInput) (*domain.Receipt, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}
func (m *MockCheckoutService) Receipt(ctx context.Context, actor domain.Actor, orderRef string) (*domain.Receipt, error) {
	args := m.Called(ctx, actor, orderRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Overview(ctx context.Context, actor domain.Actor) (*domain.AdminOverview, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminOverview), args.Error(1)
}

type MockAssistantService struct {
	mock.Mock
}

func (m *MockAssistantService) Greeting(ctx context.Context, user *domain.User) string {
	args := m.Called(ctx, user)
	return args.String(0)
}
func (m *MockAssistantService) Ask(ctx context.Context, history []service.AssistantTurn, prompt string) (string, error) {
	args := m.Called(ctx, history, prompt)
	return args.String(0), args.Error(1)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockProfileService) UpdateProfile(ctx context.Context, userID int32, in service.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockProfileService) ListProfiles(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.User), args.Error(1)
}
