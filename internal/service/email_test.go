package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/service"
)

func TestEmailService_Compose(t *testing.T) {
	ctx := context.Background()
	mailer := new(MockMailer)
	svc := service.NewEmailService(mailer)

	mailer.On("Send", ctx, mock.MatchedBy(func(e service.Email) bool {
		return e.To == "juan@example.com" && e.Subject == "Your HAZEL receipt HZL-TRX-1" &&
			e.HTML != "" && containsAll(e.PlainText, "Tent", "₱25.00", "Total: ₱49.65")
	})).Return(nil).Once()
	err := svc.SendReceipt(ctx, "juan@example.com", "Juan", &domain.Receipt{
		OrderRef: "HZL-TRX-1",
		Items:    []domain.Transaction{{ListingTitle: "Tent", RentalDurationDays: 3, RentalCostCents: 2500}},
		Summary:  domain.OrderSummary{RentalCostCents: 3300, DeliveryFeeCents: 1500, ServiceFeeCents: 165, TotalCents: 4965},
	})
	require.NoError(t, err)

	mailer.On("Send", ctx, mock.MatchedBy(func(e service.Email) bool {
		return e.Subject == "Welcome to HAZEL" && containsAll(e.PlainText, "list your items")
	})).Return(nil).Once()
	require.NoError(t, svc.SendWelcome(ctx, "owner@example.com", "Olive", domain.UserRoleOwner))

	mailer.On("Send", ctx, mock.MatchedBy(func(e service.Email) bool {
		return containsAll(e.Subject, "Tent", "2026-03-11")
	})).Return(nil).Once()
	require.NoError(t, svc.SendReturnReminder(ctx, "juan@example.com", "Juan",
		&domain.Transaction{ListingTitle: "Tent", RentalEndDate: "2026-03-11", OwnerName: "Olive"}))

	mailer.AssertExpectations(t)
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

// flakyMailer fails its first sends and then records the message.
type flakyMailer struct {
	mu       sync.Mutex
	failures int
	calls    int
	sent     []service.Email
	done     chan struct{}
}

func (m *flakyMailer) Send(_ context.Context, msg service.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failures {
		return errors.New("temporary failure")
	}
	m.sent = append(m.sent, msg)
	close(m.done)
	return nil
}

func TestEmailQueue_RetriesUntilSent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := &flakyMailer{failures: 1, done: make(chan struct{})}
	q := service.NewEmailQueue(mailer, 1, 10, 2)
	q.SetBackoff(func(int) time.Duration { return time.Millisecond })
	q.Start(ctx)

	require.NoError(t, q.Send(ctx, service.Email{To: "juan@example.com", Subject: "hi"}))

	select {
	case <-mailer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("email was not delivered")
	}
	mailer.mu.Lock()
	assert.Equal(t, 2, mailer.calls)
	assert.Equal(t, "juan@example.com", mailer.sent[0].To)
	mailer.mu.Unlock()

	cancel()
	q.Wait()
}

func TestEmailQueue_Full(t *testing.T) {
	q := service.NewEmailQueue(service.NewLogMailer(), 1, 1, 0)
	ctx := context.Background()

	// not started, so the buffer fills up
	require.NoError(t, q.Send(ctx, service.Email{To: "a@example.com"}))
	assert.ErrorIs(t, q.Send(ctx, service.Email{To: "b@example.com"}), service.ErrEmailQueueFull)
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
	fail string
}

func (m *recordingMailer) Send(_ context.Context, msg service.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.To == m.fail {
		return errors.New("rejected")
	}
	m.sent = append(m.sent, msg.To)
	return nil
}

func TestEmailQueue_Drain(t *testing.T) {
	t.Run("Sends what is still buffered", func(t *testing.T) {
		mailer := &recordingMailer{fail: "bad@example.com"}
		q := service.NewEmailQueue(mailer, 1, 5, 0)
		ctx := context.Background()
		for _, to := range []string{"a@example.com", "bad@example.com", "b@example.com"} {
			require.NoError(t, q.Send(ctx, service.Email{To: to}))
		}

		dropped := q.Drain(ctx)
		assert.Equal(t, 1, dropped)
		assert.Equal(t, []string{"a@example.com", "b@example.com"}, mailer.sent)
	})

	t.Run("Expired deadline counts everything as dropped", func(t *testing.T) {
		mailer := &recordingMailer{}
		q := service.NewEmailQueue(mailer, 1, 5, 0)
		for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
			require.NoError(t, q.Send(context.Background(), service.Email{To: to}))
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Equal(t, 3, q.Drain(ctx))
		assert.Empty(t, mailer.sent)
	})

	t.Run("Empty queue", func(t *testing.T) {
		q := service.NewEmailQueue(&recordingMailer{}, 1, 5, 0)
		assert.Zero(t, q.Drain(context.Background()))
	})
}
