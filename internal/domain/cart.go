package domain

type DeliveryOption string

const (
	DeliveryOptionPickup   DeliveryOption = "pickup"
	DeliveryOptionDelivery DeliveryOption = "delivery"
)

// CartLine is held only in the transient cart store.
type CartLine struct {
	ListingID          int32          `json:"listing_id"`
	Title              string         `json:"title"`
	ImageURL           string         `json:"image_url"`
	OwnerID            int32          `json:"owner_id"`
	OwnerName          string         `json:"owner_name"`
	OwnerTerms         string         `json:"owner_terms,omitempty"`
	PricePerDayCents   int64          `json:"price_per_day_cents"`
	RentalDurationDays int32          `json:"rental_duration_days"`
	RentalStartDate    string         `json:"rental_start_date"` // yyyy-mm-dd
	DeliveryOption     DeliveryOption `json:"delivery_option"`
	DeliveryFeeCents   int64          `json:"delivery_fee_cents"`
	RentalTotalCents   int64          `json:"rental_total_cents"`
}

type OrderSummary struct {
	RentalCostCents  int64 `json:"rental_cost_cents"`
	DeliveryFeeCents int64 `json:"delivery_fee_cents"`
	ServiceFeeCents  int64 `json:"service_fee_cents"`
	TotalCents       int64 `json:"total_cents"`
}

type Cart struct {
	UserID  int32        `json:"user_id"`
	Lines   []CartLine   `json:"lines"`
	Summary OrderSummary `json:"summary"`
}
