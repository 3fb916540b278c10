package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/repository"
)

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionSelect = `SELECT t.id, t.order_ref, COALESCE(t.listing_id, 0), t.listing_title,
	t.renter_id, TRIM(ru.first_name || ' ' || ru.last_name), t.owner_id, TRIM(ou.first_name || ' ' || ou.last_name),
	to_char(t.rental_start_date, 'YYYY-MM-DD'), to_char(t.rental_end_date, 'YYYY-MM-DD'), t.rental_duration_days,
	t.delivery_option, t.rental_cost_cents, t.delivery_fee_cents, t.service_fee_cents, t.total_cents,
	t.card_last4, t.status, t.created_on, t.completed_on
	FROM transactions t
	JOIN users ru ON ru.id = t.renter_id
	JOIN users ou ON ou.id = t.owner_id`

func scanTransaction(s scanner) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	var completedOn sql.NullTime
	err := s.Scan(&t.ID, &t.OrderRef, &t.ListingID, &t.ListingTitle,
		&t.RenterID, &t.RenterName, &t.OwnerID, &t.OwnerName,
		&t.RentalStartDate, &t.RentalEndDate, &t.RentalDurationDays,
		&t.DeliveryOption, &t.RentalCostCents, &t.DeliveryFeeCents, &t.ServiceFeeCents, &t.TotalCents,
		&t.CardLast4, &t.Status, &t.CreatedOn, &completedOn)
	if err != nil {
		return nil, err
	}
	if completedOn.Valid {
		t.CompletedOn = &completedOn.Time
	}
	return t, nil
}

func (r *transactionRepository) CreateOrder(ctx context.Context, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	logger.EnterMethod("transactionRepository.CreateOrder", "orderRef", txs[0].OrderRef, "lines", len(txs))

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `INSERT INTO transactions (order_ref, listing_id, listing_title, renter_id, owner_id, rental_start_date, rental_end_date,
	          rental_duration_days, delivery_option, rental_cost_cents, delivery_fee_cents, service_fee_cents, total_cents, card_last4, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16) RETURNING id`
	now := time.Now().UTC()
	for i := range txs {
		t := &txs[i]
		t.CreatedOn = now
		err := dbTx.QueryRowContext(ctx, query, t.OrderRef, t.ListingID, t.ListingTitle, t.RenterID, t.OwnerID, t.RentalStartDate, t.RentalEndDate,
			t.RentalDurationDays, t.DeliveryOption, t.RentalCostCents, t.DeliveryFeeCents, t.ServiceFeeCents, t.TotalCents, t.CardLast4, t.Status, t.CreatedOn).Scan(&t.ID)
		if err != nil {
			logger.ExitMethodWithError("transactionRepository.CreateOrder", err, "listingID", t.ListingID)
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	logger.ExitMethod("transactionRepository.CreateOrder", "orderRef", txs[0].OrderRef)
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, transactionSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *transactionRepository) ListByOrderRef(ctx context.Context, orderRef string) ([]domain.Transaction, error) {
	return r.list(ctx, transactionSelect+` WHERE t.order_ref = $1 ORDER BY t.id`, orderRef)
}

func (r *transactionRepository) ListByRenter(ctx context.Context, renterID int32) ([]domain.Transaction, error) {
	return r.list(ctx, transactionSelect+` WHERE t.renter_id = $1 ORDER BY t.created_on DESC, t.id DESC`, renterID)
}

func (r *transactionRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Transaction, error) {
	return r.list(ctx, transactionSelect+` WHERE t.owner_id = $1 ORDER BY t.created_on DESC, t.id DESC`, ownerID)
}

func (r *transactionRepository) ListActiveEndingOn(ctx context.Context, date string) ([]domain.Transaction, error) {
	return r.list(ctx, transactionSelect+` WHERE t.status = 'Active' AND t.rental_end_date = $1 ORDER BY t.id`, date)
}

func (r *transactionRepository) list(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id int32, status domain.RentalStatus, completedOn *time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE transactions SET status=$1, completed_on=$2 WHERE id=$3`, status, completedOn, id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *transactionRepository) MarkOverdue(ctx context.Context, today string) (int64, error) {
	query := `UPDATE transactions SET status = 'Overdue' WHERE status = 'Active' AND rental_end_date < $1`
	logger.DatabaseCall("UPDATE", query, "today", today)
	res, err := r.db.ExecContext(ctx, query, today)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err)
	return n, err
}

func (r *transactionRepository) CountActive(ctx context.Context) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM transactions WHERE status IN ('Active', 'Overdue')`).Scan(&count)
	return count, err
}
