package domain

import "time"

type RentalStatus string

const (
	RentalStatusActive    RentalStatus = "Active"
	RentalStatusOverdue   RentalStatus = "Overdue"
	RentalStatusCompleted RentalStatus = "Completed"
)

// Transaction is one rented cart line. Lines checked out together share an
// OrderRef.
type Transaction struct {
	ID                 int32          `json:"id"`
	OrderRef           string         `json:"order_ref"`
	ListingID          int32          `json:"listing_id"`
	ListingTitle       string         `json:"listing_title"`
	RenterID           int32          `json:"renter_id"`
	RenterName         string         `json:"renter_name"`
	OwnerID            int32          `json:"owner_id"`
	OwnerName          string         `json:"owner_name"`
	RentalStartDate    string         `json:"rental_start_date"`
	RentalEndDate      string         `json:"rental_end_date"`
	RentalDurationDays int32          `json:"rental_duration_days"`
	DeliveryOption     DeliveryOption `json:"delivery_option"`
	RentalCostCents    int64          `json:"rental_cost_cents"`
	DeliveryFeeCents   int64          `json:"delivery_fee_cents"`
	ServiceFeeCents    int64          `json:"service_fee_cents"`
	TotalCents         int64          `json:"total_cents"`
	CardLast4          string         `json:"card_last4,omitempty"`
	Status             RentalStatus   `json:"status"`
	CreatedOn          time.Time      `json:"created_on"`
	CompletedOn        *time.Time     `json:"completed_on,omitempty"`
}

// Receipt groups the transactions of one checkout.
type Receipt struct {
	OrderRef string        `json:"order_ref"`
	Date     time.Time     `json:"date"`
	Renter   PartyRef      `json:"renter"`
	Items    []Transaction `json:"items"`
	Summary  OrderSummary  `json:"summary"`
}

// RentalHistory is the tracker view: active and completed rentals.
type RentalHistory struct {
	Active    []Transaction `json:"active"`
	Completed []Transaction `json:"completed"`
}
