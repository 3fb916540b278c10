package service_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/repository"
	"hazel-marketplace/internal/service"
	"hazel-marketplace/internal/storage"
)

func newListingService(t *testing.T) (service.ListingService, *MockListingRepo, *MockCategoryRepo, *storage.LocalStore) {
	t.Helper()
	listingRepo := new(MockListingRepo)
	categoryRepo := new(MockCategoryRepo)
	images, err := storage.NewLocalStore("http://localhost:8080", t.TempDir(), 1<<20)
	require.NoError(t, err)
	return service.NewListingService(listingRepo, categoryRepo, images), listingRepo, categoryRepo, images
}

func validListingInput() service.ListingInput {
	return service.ListingInput{
		Title:            "Canon EOS R6",
		Category:         "Cameras",
		Description:      "Full frame mirrorless body",
		PricePerDayCents: 150000,
		ImageURL:         "https://cdn.example.com/r6.jpg",
		Tags:             []string{"camera", " Camera ", "", "mirrorless"},
	}
}

func TestListingService_Browse(t *testing.T) {
	ctx := context.Background()
	svc, listingRepo, _, _ := newListingService(t)

	t.Run("Defaults page size and hides unavailable for visitors", func(t *testing.T) {
		filter := domain.ListingFilter{Category: "Cameras", Page: 1, PageSize: service.DefaultPageSize}
		listingRepo.On("Search", ctx, filter).Return([]domain.Listing{{ID: 1}}, int32(25), nil).Once()

		page, err := svc.Browse(ctx, domain.Actor{}, service.BrowseQuery{Category: "Cameras"})
		require.NoError(t, err)
		assert.Equal(t, int32(1), page.Page)
		assert.Equal(t, int32(25), page.TotalCount)
		assert.Equal(t, int32(3), page.TotalPages)
	})

	t.Run("Admins see unavailable listings", func(t *testing.T) {
		filter := domain.ListingFilter{IncludeInactive: true, Page: 2, PageSize: service.DefaultPageSize}
		listingRepo.On("Search", ctx, filter).Return([]domain.Listing{}, int32(0), nil).Once()

		page, err := svc.Browse(ctx, domain.Actor{UserID: 1, Role: domain.UserRoleAdmin}, service.BrowseQuery{Page: 2})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, int32(0), page.TotalPages)
	})
}

func TestListingService_QuickSearch(t *testing.T) {
	ctx := context.Background()
	svc, listingRepo, _, _ := newListingService(t)

	res, err := svc.QuickSearch(ctx, domain.Actor{}, " a ")
	require.NoError(t, err)
	assert.Empty(t, res)
	listingRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)

	listingRepo.On("Search", ctx, mock.MatchedBy(func(f domain.ListingFilter) bool {
		return f.Term == "drill" && f.Page == 1 && f.PageSize > 0
	})).Return([]domain.Listing{{ID: 4, Title: "Drill"}}, int32(1), nil)
	res, err = svc.QuickSearch(ctx, domain.Actor{}, "drill")
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestListingService_Get(t *testing.T) {
	ctx := context.Background()
	svc, listingRepo, _, _ := newListingService(t)
	hidden := &domain.Listing{ID: 5, OwnerID: 2, PricePerDayCents: 1000, Available: false}
	listingRepo.On("GetByID", ctx, int32(5)).Return(hidden, nil)
	listingRepo.On("GetByID", ctx, int32(99)).Return(nil, repository.ErrNotFound)

	t.Run("Unavailable hidden from others", func(t *testing.T) {
		_, err := svc.Get(ctx, domain.Actor{UserID: 3, Role: domain.UserRoleRenter}, 5)
		assert.ErrorIs(t, err, service.ErrListingNotFound)
	})

	t.Run("Owner sees own unavailable listing with price options", func(t *testing.T) {
		d, err := svc.Get(ctx, domain.Actor{UserID: 2, Role: domain.UserRoleOwner}, 5)
		require.NoError(t, err)
		require.Len(t, d.PriceOptions, 3)
		assert.Equal(t, int64(2500), d.PriceOptions[1].TotalCents)
		assert.Equal(t, int64(5000), d.PriceOptions[2].TotalCents)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := svc.Get(ctx, domain.Actor{}, 99)
		assert.ErrorIs(t, err, service.ErrListingNotFound)
	})
}

func TestListingService_Create(t *testing.T) {
	ctx := context.Background()
	owner := domain.Actor{UserID: 2, Role: domain.UserRoleOwner}

	t.Run("Success", func(t *testing.T) {
		svc, listingRepo, categoryRepo, _ := newListingService(t)
		categoryRepo.On("GetByName", ctx, "Cameras").Return(&domain.Category{ID: 3, Name: "Cameras"}, nil)
		listingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Listing")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Listing).ID = 11
		}).Return(nil)
		listingRepo.On("GetByID", ctx, int32(11)).Return(&domain.Listing{ID: 11, OwnerID: 2, OwnerName: "Olive Owner"}, nil)

		l, err := svc.Create(ctx, owner, validListingInput())
		require.NoError(t, err)
		assert.Equal(t, "Olive Owner", l.OwnerName)
		listingRepo.AssertCalled(t, "Create", ctx, mock.MatchedBy(func(l *domain.Listing) bool {
			return l.OwnerID == 2 && l.CategoryID == 3 && l.Available &&
				assert.ObjectsAreEqual([]string{"camera", "mirrorless"}, l.Tags)
		}))
	})

	t.Run("Renters cannot list", func(t *testing.T) {
		svc, _, _, _ := newListingService(t)
		_, err := svc.Create(ctx, domain.Actor{UserID: 1, Role: domain.UserRoleRenter}, validListingInput())
		assert.ErrorIs(t, err, service.ErrOwnersOnly)
	})

	t.Run("Missing fields", func(t *testing.T) {
		svc, _, _, _ := newListingService(t)
		in := validListingInput()
		in.PricePerDayCents = 0
		_, err := svc.Create(ctx, owner, in)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("Unknown category", func(t *testing.T) {
		svc, _, categoryRepo, _ := newListingService(t)
		categoryRepo.On("GetByName", ctx, "Cameras").Return(nil, repository.ErrNotFound)
		_, err := svc.Create(ctx, owner, validListingInput())
		assert.ErrorIs(t, err, service.ErrCategoryNotFound)
	})
}

func TestListingService_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	svc, listingRepo, categoryRepo, _ := newListingService(t)
	listingRepo.On("GetByID", ctx, int32(8)).Return(&domain.Listing{ID: 8, OwnerID: 2, ImageURL: "https://cdn.example.com/old.jpg"}, nil)
	categoryRepo.On("GetByName", ctx, "Cameras").Return(&domain.Category{ID: 3, Name: "Cameras"}, nil)

	t.Run("Stranger forbidden", func(t *testing.T) {
		_, err := svc.Update(ctx, domain.Actor{UserID: 5, Role: domain.UserRoleOwner}, 8, validListingInput())
		assert.ErrorIs(t, err, service.ErrForbidden)
		assert.ErrorIs(t, svc.Delete(ctx, domain.Actor{UserID: 5, Role: domain.UserRoleOwner}, 8), service.ErrForbidden)
	})

	t.Run("Admin may edit", func(t *testing.T) {
		listingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil).Once()
		in := validListingInput()
		in.ImageURL = ""
		l, err := svc.Update(ctx, domain.Actor{UserID: 1, Role: domain.UserRoleAdmin}, 8, in)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/old.jpg", l.ImageURL)
	})

	t.Run("Owner deletes", func(t *testing.T) {
		listingRepo.On("Delete", ctx, int32(8)).Return(nil).Once()
		assert.NoError(t, svc.Delete(ctx, domain.Actor{UserID: 2, Role: domain.UserRoleOwner}, 8))
	})
}

func TestListingService_ImagesOfOtherListings(t *testing.T) {
	ctx := context.Background()
	owner := domain.Actor{UserID: 2, Role: domain.UserRoleOwner}

	setup := func(t *testing.T) (service.ListingService, *MockListingRepo, *storage.LocalStore, string) {
		svc, listingRepo, categoryRepo, images := newListingService(t)
		categoryRepo.On("GetByName", ctx, "Cameras").Return(&domain.Category{ID: 3, Name: "Cameras"}, nil)
		require.NoError(t, images.Save(ctx, "listings/1/victim.jpg", bytes.NewReader([]byte("jpg"))))
		return svc, listingRepo, images, images.URL("listings/1/victim.jpg")
	}
	victimExists := func(t *testing.T, images *storage.LocalStore) {
		rc, err := images.Open(ctx, "listings/1/victim.jpg")
		require.NoError(t, err)
		rc.Close()
	}

	t.Run("Foreign image rejected on update", func(t *testing.T) {
		svc, listingRepo, images, victimURL := setup(t)
		listingRepo.On("GetByID", ctx, int32(2)).Return(&domain.Listing{ID: 2, OwnerID: 2, ImageURL: "https://cdn.example.com/own.jpg"}, nil)

		in := validListingInput()
		in.ImageURL = victimURL
		_, err := svc.Update(ctx, owner, 2, in)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
		listingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		victimExists(t, images)
	})

	t.Run("Foreign image rejected on create", func(t *testing.T) {
		svc, listingRepo, _, victimURL := setup(t)
		in := validListingInput()
		in.ImageURL = victimURL
		_, err := svc.Create(ctx, owner, in)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
		listingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Replacing a foreign image keeps the file", func(t *testing.T) {
		svc, listingRepo, images, victimURL := setup(t)
		listingRepo.On("GetByID", ctx, int32(2)).Return(&domain.Listing{ID: 2, OwnerID: 2, ImageURL: victimURL}, nil)
		listingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil)

		_, err := svc.Update(ctx, owner, 2, validListingInput())
		require.NoError(t, err)
		victimExists(t, images)
	})

	t.Run("Deleting keeps a foreign image", func(t *testing.T) {
		svc, listingRepo, images, victimURL := setup(t)
		listingRepo.On("GetByID", ctx, int32(2)).Return(&domain.Listing{ID: 2, OwnerID: 2, ImageURL: victimURL}, nil)
		listingRepo.On("Delete", ctx, int32(2)).Return(nil)

		require.NoError(t, svc.Delete(ctx, owner, 2))
		victimExists(t, images)
	})

	t.Run("Own staged image is accepted and the old one removed", func(t *testing.T) {
		svc, listingRepo, images, _ := setup(t)
		require.NoError(t, images.Save(ctx, "listings/2/old.jpg", bytes.NewReader([]byte("jpg"))))
		listingRepo.On("GetByID", ctx, int32(2)).Return(&domain.Listing{ID: 2, OwnerID: 2, ImageURL: images.URL("listings/2/old.jpg")}, nil)
		listingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil)

		staged, err := svc.StageImage(ctx, owner, "image/jpeg", bytes.NewReader([]byte("jpg")))
		require.NoError(t, err)
		in := validListingInput()
		in.ImageURL = staged
		l, err := svc.Update(ctx, owner, 2, in)
		require.NoError(t, err)
		assert.Equal(t, staged, l.ImageURL)

		_, err = images.Open(ctx, "listings/2/old.jpg")
		assert.ErrorIs(t, err, storage.ErrFileNotFound)
	})
}

func TestListingService_SetAvailability(t *testing.T) {
	ctx := context.Background()
	svc, listingRepo, _, _ := newListingService(t)

	_, err := svc.SetAvailability(ctx, domain.Actor{UserID: 2, Role: domain.UserRoleOwner}, 8, false)
	assert.ErrorIs(t, err, service.ErrForbidden)

	listingRepo.On("SetAvailability", ctx, int32(8), false).Return(nil)
	listingRepo.On("GetByID", ctx, int32(8)).Return(&domain.Listing{ID: 8, Available: false}, nil)
	l, err := svc.SetAvailability(ctx, domain.Actor{UserID: 1, Role: domain.UserRoleAdmin}, 8, false)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusUnavailable, l.Status())
}

func TestListingService_UploadImage(t *testing.T) {
	ctx := context.Background()
	svc, listingRepo, _, images := newListingService(t)
	owner := domain.Actor{UserID: 2, Role: domain.UserRoleOwner}
	listingRepo.On("GetByID", ctx, int32(8)).Return(&domain.Listing{ID: 8, OwnerID: 2}, nil)
	listingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil)

	l, err := svc.UploadImage(ctx, owner, 8, "image/png", bytes.NewReader([]byte("png-bytes")))
	require.NoError(t, err)
	key, ok := images.KeyFromURL(l.ImageURL)
	require.True(t, ok)
	assert.Contains(t, key, "listings/8/")

	_, err = svc.UploadImage(ctx, owner, 8, "application/pdf", bytes.NewReader([]byte("pdf")))
	assert.ErrorIs(t, err, storage.ErrUnsupportedType)

	url, err := svc.StageImage(ctx, owner, "image/jpeg", bytes.NewReader([]byte("jpg")))
	require.NoError(t, err)
	assert.Contains(t, url, "/images/listings/staged/2/")
}
