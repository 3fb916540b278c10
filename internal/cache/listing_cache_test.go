package cache

import (
	"context"
	"testing"
	"time"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockListingRepo struct {
	mock.Mock
	repository.ListingRepository
}

func (m *mockListingRepo) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *mockListingRepo) Update(ctx context.Context, l *domain.Listing) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockListingRepo) SetAvailability(ctx context.Context, id int32, available bool) error {
	return m.Called(ctx, id, available).Error(0)
}

func (m *mockListingRepo) Delete(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}

type mockCategoryRepo struct {
	mock.Mock
	repository.CategoryRepository
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

// unreachableRedis points at a closed port so every command fails fast.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestCachedListingRepository_FallsBackWhenRedisIsDown(t *testing.T) {
	repo := new(mockListingRepo)
	rdb := unreachableRedis()
	defer rdb.Close()

	cached := NewCachedListingRepository(repo, rdb, time.Minute)
	ctx := context.Background()

	t.Run("Hit in database", func(t *testing.T) {
		repo.On("GetByID", ctx, int32(1)).Return(&domain.Listing{ID: 1, Title: "Tent"}, nil).Once()

		l, err := cached.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Tent", l.Title)
	})

	t.Run("Not found passes through", func(t *testing.T) {
		repo.On("GetByID", ctx, int32(2)).Return(nil, repository.ErrNotFound).Once()

		_, err := cached.GetByID(ctx, 2)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Update still writes", func(t *testing.T) {
		l := &domain.Listing{ID: 1}
		repo.On("Update", ctx, l).Return(nil).Once()
		assert.NoError(t, cached.Update(ctx, l))
	})

	repo.AssertExpectations(t)
}

// commandRecorder answers every redis command locally and records its name.
type commandRecorder struct {
	events *[]string
}

func (h commandRecorder) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h commandRecorder) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		*h.events = append(*h.events, cmd.Name())
		return nil
	}
}

func (h commandRecorder) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestCachedListingRepository_InvalidatesAfterWrite(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		setup func(repo *mockListingRepo, events *[]string)
		write func(c *CachedListingRepository) error
	}{
		{
			name: "Update",
			setup: func(repo *mockListingRepo, events *[]string) {
				repo.On("Update", ctx, mock.Anything).Run(func(mock.Arguments) { *events = append(*events, "db") }).Return(nil)
			},
			write: func(c *CachedListingRepository) error { return c.Update(ctx, &domain.Listing{ID: 4}) },
		},
		{
			name: "SetAvailability",
			setup: func(repo *mockListingRepo, events *[]string) {
				repo.On("SetAvailability", ctx, int32(4), false).Run(func(mock.Arguments) { *events = append(*events, "db") }).Return(nil)
			},
			write: func(c *CachedListingRepository) error { return c.SetAvailability(ctx, 4, false) },
		},
		{
			name: "Delete",
			setup: func(repo *mockListingRepo, events *[]string) {
				repo.On("Delete", ctx, int32(4)).Run(func(mock.Arguments) { *events = append(*events, "db") }).Return(nil)
			},
			write: func(c *CachedListingRepository) error { return c.Delete(ctx, 4) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []string
			rdb := unreachableRedis()
			defer rdb.Close()
			rdb.AddHook(commandRecorder{events: &events})

			repo := new(mockListingRepo)
			tt.setup(repo, &events)

			require.NoError(t, tt.write(NewCachedListingRepository(repo, rdb, time.Minute)))
			assert.Equal(t, []string{"db", "del"}, events)
		})
	}
}

func TestCachedCategoryRepository_FallsBack(t *testing.T) {
	repo := new(mockCategoryRepo)
	rdb := unreachableRedis()
	defer rdb.Close()

	cats := []domain.Category{{ID: 1, Name: "Cameras"}}
	repo.On("List", mock.Anything).Return(cats, nil)

	got, err := NewCachedCategoryRepository(repo, rdb, 0).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cats, got)
}
