package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hazel-marketplace/internal/domain"
)

type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) ListRentals(ctx context.Context, renterID int32) (*domain.RentalHistory, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalHistory), args.Error(1)
}
func (m *MockRentalService) ListLendings(ctx context.Context, ownerID int32) (*domain.RentalHistory, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalHistory), args.Error(1)
}
func (m *MockRentalService) MarkReturned(ctx context.Context, actor domain.Actor, transactionID int32) (*domain.Transaction, error) {
	args := m.Called(ctx, actor, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockRentalService) MarkOverdueRentals(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockRentalService) SendReturnReminders(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func fixedRunner(svc *MockRentalService, now time.Time) *JobRunner {
	jr := NewJobRunner(svc, time.Second)
	jr.now = func() time.Time { return now }
	return jr
}

func TestJobRunner_RunAllNightlyJobs(t *testing.T) {
	now := time.Date(2030, 5, 1, 0, 5, 0, 0, time.UTC)
	svc := new(MockRentalService)
	svc.On("MarkOverdueRentals", mock.Anything, now).Return(int64(2), nil)
	svc.On("SendReturnReminders", mock.Anything, now).Return(3, nil)

	fixedRunner(svc, now).RunAllNightlyJobs()

	svc.AssertExpectations(t)
}

func TestJobRunner_runWithRecovery(t *testing.T) {
	jr := NewJobRunner(new(MockRentalService), time.Second)

	t.Run("Error is returned", func(t *testing.T) {
		err := jr.runWithRecovery("failing", func(context.Context) error { return errors.New("db down") })
		assert.EqualError(t, err, "db down")
	})

	t.Run("Panic is recovered", func(t *testing.T) {
		assert.NotPanics(t, func() {
			_ = jr.runWithRecovery("panicking", func(context.Context) error { panic("boom") })
		})
	})

	t.Run("Context carries the timeout", func(t *testing.T) {
		_ = jr.runWithRecovery("deadline", func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return nil
		})
	})
}

func TestJobRunner_FailingJobDoesNotStopTheNext(t *testing.T) {
	now := time.Date(2030, 5, 1, 0, 5, 0, 0, time.UTC)
	svc := new(MockRentalService)
	svc.On("MarkOverdueRentals", mock.Anything, now).Return(int64(0), errors.New("db down"))
	svc.On("SendReturnReminders", mock.Anything, now).Return(1, nil)

	fixedRunner(svc, now).RunAllNightlyJobs()

	svc.AssertCalled(t, "SendReturnReminders", mock.Anything, now)
}
