package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/repository"
	"hazel-marketplace/internal/service"
)

var validPayment = service.PaymentDetails{
	CardholderName: "Juan Dela Cruz",
	CardNumber:     "4242 4242 4242 4242",
	Expiry:         "12/99",
	CVV:            "123",
}

func cartLines() []domain.CartLine {
	return []domain.CartLine{
		{ListingID: 10, Title: "Tent", OwnerID: 2, OwnerName: "Olive Owner", OwnerTerms: "Return dry.",
			RentalDurationDays: 3, RentalStartDate: "2030-05-01", DeliveryOption: domain.DeliveryOptionDelivery,
			DeliveryFeeCents: 1500, RentalTotalCents: 2500},
		{ListingID: 11, Title: "Stove", OwnerID: 3, OwnerName: "Pia Owner",
			RentalDurationDays: 1, RentalStartDate: "2030-05-02", DeliveryOption: domain.DeliveryOptionPickup,
			RentalTotalCents: 800},
	}
}

type checkoutMocks struct {
	store   *MockCartStore
	users   *MockUserRepo
	txs     *MockTransactionRepo
	content *MockContentRepo
	notify  *MockNotificationService
	email   *MockEmailService
}

func newCheckout() (service.CheckoutService, *checkoutMocks) {
	m := &checkoutMocks{
		store:   new(MockCartStore),
		users:   new(MockUserRepo),
		txs:     new(MockTransactionRepo),
		content: new(MockContentRepo),
		notify:  new(MockNotificationService),
		email:   new(MockEmailService),
	}
	return service.NewCheckoutService(m.store, m.users, m.txs, m.content, m.notify, m.email), m
}

func TestRenderAgreement(t *testing.T) {
	tpl := "<p>[Renter Name]</p>[List of Items and Terms]"
	out := service.RenderAgreement(tpl, &domain.User{FirstName: "Juan", LastName: "Dela Cruz"}, cartLines()[:1])
	assert.Equal(t, "<p>Juan Dela Cruz</p><ul><li><b>Tent</b> (owned by Olive Owner) - 3 day(s) starting May 1, 2030. Return dry.</li></ul>", out)

	out = service.RenderAgreement(tpl, nil, nil)
	assert.Equal(t, "<p>The Renter</p><ul></ul>", out)
}

func TestCheckoutService_PreviewAgreement(t *testing.T) {
	ctx := context.Background()
	svc, m := newCheckout()
	renter := domain.Actor{UserID: 1, Role: domain.UserRoleRenter}
	m.store.On("Lines", ctx, int32(1)).Return(cartLines(), nil)
	m.users.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, FirstName: "Juan"}, nil)
	m.content.On("Get", ctx, domain.ContentKeyRentalAgreement).Return(nil, repository.ErrNotFound)

	out, err := svc.PreviewAgreement(ctx, renter)
	require.NoError(t, err)
	assert.Contains(t, out, "<b>Juan</b>")
	assert.Contains(t, out, "<b>Stove</b> (owned by Pia Owner)")
}

func TestCheckoutService_Checkout(t *testing.T) {
	ctx := context.Background()
	renter := domain.Actor{UserID: 1, Role: domain.UserRoleRenter}
	user := &domain.User{ID: 1, FirstName: "Juan", LastName: "Dela Cruz", Email: "juan@example.com"}

	t.Run("Success", func(t *testing.T) {
		svc, m := newCheckout()
		m.store.On("Lines", ctx, int32(1)).Return(cartLines(), nil)
		m.users.On("GetByID", ctx, int32(1)).Return(user, nil)
		m.txs.On("CreateOrder", ctx, mock.AnythingOfType("[]domain.Transaction")).Return(nil)
		m.store.On("Clear", ctx, int32(1)).Return(nil)
		m.notify.On("Notify", ctx, int32(2), "New rental", mock.Anything, mock.Anything).Return(nil)
		m.notify.On("Notify", ctx, int32(3), "New rental", mock.Anything, mock.Anything).Return(errors.New("down"))
		m.email.On("SendReceipt", ctx, "juan@example.com", "Juan Dela Cruz", mock.AnythingOfType("*domain.Receipt")).Return(nil)

		receipt, err := svc.Checkout(ctx, renter, service.CheckoutInput{Agreed: true, Payment: validPayment})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(receipt.OrderRef, service.OrderRefPrefix))
		assert.Equal(t, domain.OrderSummary{
			RentalCostCents: 3300, DeliveryFeeCents: 1500, ServiceFeeCents: 165, TotalCents: 4965,
		}, receipt.Summary)
		require.Len(t, receipt.Items, 2)
		assert.Equal(t, "2030-05-03", receipt.Items[0].RentalEndDate)
		assert.Equal(t, "2030-05-02", receipt.Items[1].RentalEndDate)
		for _, tx := range receipt.Items {
			assert.Equal(t, domain.RentalStatusActive, tx.Status)
			assert.Equal(t, "4242", tx.CardLast4)
			assert.Equal(t, receipt.OrderRef, tx.OrderRef)
		}
		assert.Equal(t, int64(125), receipt.Items[0].ServiceFeeCents)
		assert.Equal(t, int64(40), receipt.Items[1].ServiceFeeCents)
		m.store.AssertCalled(t, "Clear", ctx, int32(1))
		m.email.AssertExpectations(t)
	})

	t.Run("Stored lines add up to the receipt total", func(t *testing.T) {
		svc, m := newCheckout()
		lines := []domain.CartLine{
			{ListingID: 20, OwnerID: 2, RentalDurationDays: 1, RentalStartDate: "2030-05-01", RentalTotalCents: 10},
			{ListingID: 21, OwnerID: 2, RentalDurationDays: 1, RentalStartDate: "2030-05-01", RentalTotalCents: 10},
		}
		var stored []domain.Transaction
		m.store.On("Lines", ctx, int32(1)).Return(lines, nil)
		m.users.On("GetByID", ctx, int32(1)).Return(user, nil)
		m.txs.On("CreateOrder", ctx, mock.AnythingOfType("[]domain.Transaction")).
			Run(func(args mock.Arguments) { stored = args.Get(1).([]domain.Transaction) }).Return(nil)
		m.store.On("Clear", ctx, int32(1)).Return(nil)
		m.notify.On("Notify", ctx, int32(2), "New rental", mock.Anything, mock.Anything).Return(nil)
		m.email.On("SendReceipt", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		receipt, err := svc.Checkout(ctx, renter, service.CheckoutInput{Agreed: true, Payment: validPayment})
		require.NoError(t, err)

		var sum int64
		for _, tx := range stored {
			sum += tx.TotalCents
		}
		assert.Equal(t, int64(21), receipt.Summary.TotalCents)
		assert.Equal(t, receipt.Summary.TotalCents, sum)
	})

	t.Run("Empty cart", func(t *testing.T) {
		svc, m := newCheckout()
		m.store.On("Lines", ctx, int32(1)).Return([]domain.CartLine{}, nil)
		_, err := svc.Checkout(ctx, renter, service.CheckoutInput{Agreed: true, Payment: validPayment})
		assert.ErrorIs(t, err, service.ErrCartEmpty)
	})

	t.Run("Agreement required", func(t *testing.T) {
		svc, m := newCheckout()
		m.store.On("Lines", ctx, int32(1)).Return(cartLines(), nil)
		m.users.On("GetByID", ctx, int32(1)).Return(user, nil)
		_, err := svc.Checkout(ctx, renter, service.CheckoutInput{Payment: validPayment})
		assert.ErrorIs(t, err, service.ErrAgreementRequired)
		m.txs.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("Bad card", func(t *testing.T) {
		svc, m := newCheckout()
		m.store.On("Lines", ctx, int32(1)).Return(cartLines(), nil)
		m.users.On("GetByID", ctx, int32(1)).Return(user, nil)
		p := validPayment
		p.CardNumber = "4242 4242 4242 4241"
		_, err := svc.Checkout(ctx, renter, service.CheckoutInput{Agreed: true, Payment: p})
		assert.ErrorIs(t, err, service.ErrInvalidCardNumber)
	})
}

func TestCheckoutService_Receipt(t *testing.T) {
	ctx := context.Background()
	svc, m := newCheckout()
	txs := []domain.Transaction{
		{ID: 1, OrderRef: "HZL-TRX-1", RenterID: 1, RenterName: "Juan", RentalCostCents: 2500, DeliveryFeeCents: 1500, ServiceFeeCents: 125, TotalCents: 4125},
		{ID: 2, OrderRef: "HZL-TRX-1", RenterID: 1, RenterName: "Juan", RentalCostCents: 800, ServiceFeeCents: 40, TotalCents: 840},
	}
	m.txs.On("ListByOrderRef", ctx, "HZL-TRX-1").Return(txs, nil)
	m.txs.On("ListByOrderRef", ctx, "HZL-TRX-2").Return([]domain.Transaction{}, nil)
	m.users.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, Email: "juan@example.com"}, nil)

	r, err := svc.Receipt(ctx, domain.Actor{UserID: 1, Role: domain.UserRoleRenter}, "HZL-TRX-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderSummary{
		RentalCostCents: 3300, DeliveryFeeCents: 1500, ServiceFeeCents: 165, TotalCents: 4965,
	}, r.Summary)
	assert.Equal(t, "juan@example.com", r.Renter.Email)

	_, err = svc.Receipt(ctx, domain.Actor{UserID: 2, Role: domain.UserRoleRenter}, "HZL-TRX-1")
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
	_, err = svc.Receipt(ctx, domain.Actor{UserID: 1, Role: domain.UserRoleRenter}, "HZL-TRX-2")
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func TestValidatePayment(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	last4, err := service.ValidatePayment(validPayment, now)
	require.NoError(t, err)
	assert.Equal(t, "4242", last4)

	tests := []struct {
		name string
		edit func(p *service.PaymentDetails)
		want error
	}{
		{"letters in number", func(p *service.PaymentDetails) { p.CardNumber = "4242abcd42424242" }, service.ErrInvalidCardNumber},
		{"too short", func(p *service.PaymentDetails) { p.CardNumber = "4242" }, service.ErrInvalidCardNumber},
		{"bad month", func(p *service.PaymentDetails) { p.Expiry = "13/30" }, service.ErrInvalidExpiry},
		{"bad format", func(p *service.PaymentDetails) { p.Expiry = "1230" }, service.ErrInvalidExpiry},
		{"expired", func(p *service.PaymentDetails) { p.Expiry = "05/26" }, service.ErrCardExpired},
		{"short cvv", func(p *service.PaymentDetails) { p.CVV = "12" }, service.ErrInvalidCVV},
		{"alpha cvv", func(p *service.PaymentDetails) { p.CVV = "12a" }, service.ErrInvalidCVV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayment
			tt.edit(&p)
			_, err := service.ValidatePayment(p, now)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// valid through the end of the expiry month
	p := validPayment
	p.Expiry = "06/26"
	_, err = service.ValidatePayment(p, now)
	assert.NoError(t, err)
}
