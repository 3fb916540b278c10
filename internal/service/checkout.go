package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"hazel-marketplace/internal/cart"
	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/pricing"
	"hazel-marketplace/internal/repository"
)

const (
	OrderRefPrefix = "HZL-TRX-"

	placeholderRenterName = "[Renter Name]"
	placeholderItems      = "[List of Items and Terms]"
	agreementDateLayout   = "Jan 2, 2006"
)

type checkoutService struct {
	store       cart.Store
	userRepo    repository.UserRepository
	txRepo      repository.TransactionRepository
	contentRepo repository.ContentRepository
	notifySvc   NotificationService
	emailSvc    EmailService
	now         func() time.Time
}

func NewCheckoutService(
	store cart.Store,
	userRepo repository.UserRepository,
	txRepo repository.TransactionRepository,
	contentRepo repository.ContentRepository,
	notifySvc NotificationService,
	emailSvc EmailService,
) CheckoutService {
	return &checkoutService{
		store:       store,
		userRepo:    userRepo,
		txRepo:      txRepo,
		contentRepo: contentRepo,
		notifySvc:   notifySvc,
		emailSvc:    emailSvc,
		now:         time.Now,
	}
}

// RenderAgreement fills the agreement template with the renter name and one
// list entry per cart line.
func RenderAgreement(template string, renter *domain.User, lines []domain.CartLine) string {
	name := "The Renter"
	if renter != nil {
		if n := strings.TrimSpace(renter.FirstName + " " + renter.LastName); n != "" {
			name = n
		}
	}

	var items strings.Builder
	items.WriteString("<ul>")
	for _, l := range lines {
		start := l.RentalStartDate
		if t, err := pricing.ParseDate(l.RentalStartDate); err == nil {
			start = t.Format(agreementDateLayout)
		}
		fmt.Fprintf(&items, "<li><b>%s</b> (owned by %s) - %d day(s) starting %s. %s</li>",
			html.EscapeString(l.Title), html.EscapeString(l.OwnerName), l.RentalDurationDays, start, html.EscapeString(l.OwnerTerms))
	}
	items.WriteString("</ul>")

	out := strings.ReplaceAll(template, placeholderRenterName, html.EscapeString(name))
	return strings.ReplaceAll(out, placeholderItems, items.String())
}

func (s *checkoutService) agreementTemplate(ctx context.Context) (string, error) {
	c, err := s.contentRepo.Get(ctx, domain.ContentKeyRentalAgreement)
	if errors.Is(err, repository.ErrNotFound) {
		return DefaultAgreementTemplate, nil
	}
	if err != nil {
		return "", err
	}
	return c.Body, nil
}

// renterCart loads the renter and their non-empty cart.
func (s *checkoutService) renterCart(ctx context.Context, actor domain.Actor) (*domain.User, []domain.CartLine, error) {
	if actor.Role != domain.UserRoleRenter {
		return nil, nil, ErrCartEmpty
	}
	lines, err := s.store.Lines(ctx, actor.UserID)
	if err != nil {
		return nil, nil, err
	}
	if len(lines) == 0 {
		return nil, nil, ErrCartEmpty
	}
	renter, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	return renter, lines, nil
}

func (s *checkoutService) PreviewAgreement(ctx context.Context, actor domain.Actor) (string, error) {
	renter, lines, err := s.renterCart(ctx, actor)
	if err != nil {
		return "", err
	}
	tpl, err := s.agreementTemplate(ctx)
	if err != nil {
		return "", err
	}
	return RenderAgreement(tpl, renter, lines), nil
}

func (s *checkoutService) Checkout(ctx context.Context, actor domain.Actor, in CheckoutInput) (*domain.Receipt, error) {
	logger.EnterMethod("checkoutService.Checkout", "userID", actor.UserID)

	renter, lines, err := s.renterCart(ctx, actor)
	if err != nil {
		logger.ExitMethodWithError("checkoutService.Checkout", err)
		return nil, err
	}
	if !in.Agreed {
		return nil, ErrAgreementRequired
	}
	last4, err := ValidatePayment(in.Payment, s.now())
	if err != nil {
		logger.ExitMethodWithError("checkoutService.Checkout", err, "reason", "payment rejected")
		return nil, err
	}

	orderRef := OrderRefPrefix + strings.ToUpper(uuid.NewString())
	fees := pricing.SplitServiceFee(lines)
	txs := make([]domain.Transaction, 0, len(lines))
	for i, l := range lines {
		start, err := pricing.ParseDate(l.RentalStartDate)
		if err != nil {
			return nil, invalid("%v", err)
		}
		fee := fees[i]
		txs = append(txs, domain.Transaction{
			OrderRef:           orderRef,
			ListingID:          l.ListingID,
			ListingTitle:       l.Title,
			RenterID:           renter.ID,
			RenterName:         renter.FullName(),
			OwnerID:            l.OwnerID,
			OwnerName:          l.OwnerName,
			RentalStartDate:    l.RentalStartDate,
			RentalEndDate:      pricing.EndDate(start, l.RentalDurationDays).Format(pricing.DateLayout),
			RentalDurationDays: l.RentalDurationDays,
			DeliveryOption:     l.DeliveryOption,
			RentalCostCents:    l.RentalTotalCents,
			DeliveryFeeCents:   l.DeliveryFeeCents,
			ServiceFeeCents:    fee,
			TotalCents:         l.RentalTotalCents + l.DeliveryFeeCents + fee,
			CardLast4:          last4,
			Status:             domain.RentalStatusActive,
		})
	}

	logger.DatabaseCall("INSERT", "transactions", "orderRef", orderRef, "lines", len(txs))
	if err := s.txRepo.CreateOrder(ctx, txs); err != nil {
		logger.DatabaseResult("INSERT", 0, err)
		return nil, fmt.Errorf("failed to record order: %w", err)
	}
	logger.DatabaseResult("INSERT", int64(len(txs)), nil)

	if err := s.store.Clear(ctx, renter.ID); err != nil {
		logger.Warn("Failed to clear cart after checkout", "userID", renter.ID, "error", err)
	}

	receipt := &domain.Receipt{
		OrderRef: orderRef,
		Date:     s.now().UTC(),
		Renter:   domain.PartyRef{ID: renter.ID, Name: renter.FullName(), Email: renter.Email},
		Items:    txs,
		Summary:  summarizeTransactions(txs),
	}

	for _, tx := range txs {
		msg := fmt.Sprintf("%s rented %s for %d day(s) starting %s.", tx.RenterName, tx.ListingTitle, tx.RentalDurationDays, tx.RentalStartDate)
		attrs := map[string]string{"order_ref": orderRef, "listing_id": strconv.Itoa(int(tx.ListingID))}
		if err := s.notifySvc.Notify(ctx, tx.OwnerID, "New rental", msg, attrs); err != nil {
			logger.Warn("Failed to notify owner", "ownerID", tx.OwnerID, "orderRef", orderRef, "error", err)
		}
	}
	if err := s.emailSvc.SendReceipt(ctx, renter.Email, renter.FullName(), receipt); err != nil {
		logger.Warn("Failed to send receipt email", "email", renter.Email, "orderRef", orderRef, "error", err)
	}

	logger.ExitMethod("checkoutService.Checkout", "orderRef", orderRef, "totalCents", receipt.Summary.TotalCents)
	return receipt, nil
}

func (s *checkoutService) Receipt(ctx context.Context, actor domain.Actor, orderRef string) (*domain.Receipt, error) {
	txs, err := s.txRepo.ListByOrderRef(ctx, orderRef)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, ErrOrderNotFound
	}
	if txs[0].RenterID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrOrderNotFound
	}

	renter := domain.PartyRef{ID: txs[0].RenterID, Name: txs[0].RenterName}
	if u, err := s.userRepo.GetByID(ctx, txs[0].RenterID); err == nil {
		renter.Email = u.Email
	}
	return &domain.Receipt{
		OrderRef: orderRef,
		Date:     txs[0].CreatedOn,
		Renter:   renter,
		Items:    txs,
		Summary:  summarizeTransactions(txs),
	}, nil
}

// summarizeTransactions adds up stored order lines, so a receipt always
// matches what was recorded.
func summarizeTransactions(txs []domain.Transaction) domain.OrderSummary {
	var s domain.OrderSummary
	for _, tx := range txs {
		s.RentalCostCents += tx.RentalCostCents
		s.DeliveryFeeCents += tx.DeliveryFeeCents
		s.ServiceFeeCents += tx.ServiceFeeCents
		s.TotalCents += tx.TotalCents
	}
	return s
}

// ValidatePayment checks the card details and returns the card's last four
// digits. Nothing else about the card is kept.
func ValidatePayment(p PaymentDetails, now time.Time) (string, error) {
	number := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, p.CardNumber)
	if len(number) < 13 || len(number) > 19 || !allDigits(number) || !luhnValid(number) {
		return "", ErrInvalidCardNumber
	}
	if err := checkExpiry(strings.TrimSpace(p.Expiry), now); err != nil {
		return "", err
	}
	cvv := strings.TrimSpace(p.CVV)
	if len(cvv) < 3 || len(cvv) > 4 || !allDigits(cvv) {
		return "", ErrInvalidCVV
	}
	return number[len(number)-4:], nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func luhnValid(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// checkExpiry accepts MM/YY; a card is valid through the last day of its month.
func checkExpiry(expiry string, now time.Time) error {
	mm, yy, ok := strings.Cut(expiry, "/")
	if !ok || len(mm) != 2 || len(yy) != 2 || !allDigits(mm) || !allDigits(yy) {
		return ErrInvalidExpiry
	}
	month, _ := strconv.Atoi(mm)
	year, _ := strconv.Atoi(yy)
	if month < 1 || month > 12 {
		return ErrInvalidExpiry
	}
	firstOfNext := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	if !now.UTC().Before(firstOfNext) {
		return ErrCardExpired
	}
	return nil
}
