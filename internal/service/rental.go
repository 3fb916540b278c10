package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/pricing"
	"hazel-marketplace/internal/repository"
)

type rentalService struct {
	txRepo    repository.TransactionRepository
	userRepo  repository.UserRepository
	notifySvc NotificationService
	emailSvc  EmailService
	now       func() time.Time
}

func NewRentalService(
	txRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	notifySvc NotificationService,
	emailSvc EmailService,
) RentalService {
	return &rentalService{
		txRepo:    txRepo,
		userRepo:  userRepo,
		notifySvc: notifySvc,
		emailSvc:  emailSvc,
		now:       time.Now,
	}
}

// splitHistory puts Active and Overdue rentals in the active list.
func splitHistory(txs []domain.Transaction) *domain.RentalHistory {
	h := &domain.RentalHistory{Active: []domain.Transaction{}, Completed: []domain.Transaction{}}
	for _, tx := range txs {
		if tx.Status == domain.RentalStatusCompleted {
			h.Completed = append(h.Completed, tx)
		} else {
			h.Active = append(h.Active, tx)
		}
	}
	return h
}

func (s *rentalService) ListRentals(ctx context.Context, renterID int32) (*domain.RentalHistory, error) {
	txs, err := s.txRepo.ListByRenter(ctx, renterID)
	if err != nil {
		return nil, err
	}
	return splitHistory(txs), nil
}

func (s *rentalService) ListLendings(ctx context.Context, ownerID int32) (*domain.RentalHistory, error) {
	txs, err := s.txRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return splitHistory(txs), nil
}

func (s *rentalService) MarkReturned(ctx context.Context, actor domain.Actor, transactionID int32) (*domain.Transaction, error) {
	logger.EnterMethod("rentalService.MarkReturned", "userID", actor.UserID, "transactionID", transactionID)

	tx, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	if tx.OwnerID != actor.UserID {
		logger.ExitMethodWithError("rentalService.MarkReturned", ErrForbidden, "ownerID", tx.OwnerID)
		return nil, ErrForbidden
	}
	if tx.Status != domain.RentalStatusActive && tx.Status != domain.RentalStatusOverdue {
		return nil, ErrRentalNotReturnable
	}

	completed := s.now().UTC()
	if err := s.txRepo.UpdateStatus(ctx, tx.ID, domain.RentalStatusCompleted, &completed); err != nil {
		return nil, fmt.Errorf("failed to complete rental: %w", err)
	}
	tx.Status = domain.RentalStatusCompleted
	tx.CompletedOn = &completed

	msg := fmt.Sprintf("%s marked %s as returned. Thank you for renting!", tx.OwnerName, tx.ListingTitle)
	attrs := map[string]string{"transaction_id": strconv.Itoa(int(tx.ID)), "order_ref": tx.OrderRef}
	if err := s.notifySvc.Notify(ctx, tx.RenterID, "Rental completed", msg, attrs); err != nil {
		logger.Warn("Failed to notify renter", "renterID", tx.RenterID, "error", err)
	}

	logger.ExitMethod("rentalService.MarkReturned", "transactionID", tx.ID)
	return tx, nil
}

// MarkOverdueRentals flags Active rentals whose last day is before today.
func (s *rentalService) MarkOverdueRentals(ctx context.Context, now time.Time) (int64, error) {
	today := pricing.Today(now).Format(pricing.DateLayout)
	logger.DatabaseCall("UPDATE", "transactions", "today", today)
	n, err := s.txRepo.MarkOverdue(ctx, today)
	logger.DatabaseResult("UPDATE", n, err)
	return n, err
}

// SendReturnReminders emails renters whose rental ends tomorrow and returns
// how many reminders were sent.
func (s *rentalService) SendReturnReminders(ctx context.Context, now time.Time) (int, error) {
	tomorrow := pricing.Today(now).AddDate(0, 0, 1).Format(pricing.DateLayout)
	txs, err := s.txRepo.ListActiveEndingOn(ctx, tomorrow)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range txs {
		tx := &txs[i]
		renter, err := s.userRepo.GetByID(ctx, tx.RenterID)
		if err != nil {
			logger.Warn("Skipping return reminder", "transactionID", tx.ID, "error", err)
			continue
		}
		if err := s.emailSvc.SendReturnReminder(ctx, renter.Email, renter.FullName(), tx); err != nil {
			logger.Warn("Failed to send return reminder", "transactionID", tx.ID, "error", err)
			continue
		}
		msg := fmt.Sprintf("Please return %s by %s.", tx.ListingTitle, tx.RentalEndDate)
		if err := s.notifySvc.Notify(ctx, tx.RenterID, "Return reminder", msg, map[string]string{"transaction_id": strconv.Itoa(int(tx.ID))}); err != nil {
			logger.Warn("Failed to store reminder notification", "transactionID", tx.ID, "error", err)
		}
		sent++
	}
	return sent, nil
}
