package pricing

import (
	"errors"
	"fmt"
	"time"

	"hazel-marketplace/internal/domain"
)

const (
	DateLayout = "2006-01-02"

	// ServiceFeePercent is applied to the rental subtotal only.
	ServiceFeePercent = 5

	MinRentalDays = 1
	MaxRentalDays = 30

	DefaultDeliveryFeeCents int64 = 1500
)

var (
	ErrInvalidDuration       = fmt.Errorf("rental duration must be between %d and %d days", MinRentalDays, MaxRentalDays)
	ErrInvalidPrice          = errors.New("price must be a positive amount")
	ErrInvalidDeliveryOption = errors.New("delivery option must be pickup or delivery")
)

// DurationOption is one row of the duration selector on a listing page.
type DurationOption struct {
	Days        int32 `json:"days"`
	TotalCents  int64 `json:"total_cents"`
	PerDayCents int64 `json:"per_day_cents"`
}

// tierDays are the durations offered with a discount.
var tierDays = []int32{1, 3, 7}

// RentalCost returns the price for renting an item for days days.
// 3 days cost 2.5 times the daily price and 7 days cost 5 times; any other
// duration is charged per day.
func RentalCost(pricePerDayCents int64, days int32) (int64, error) {
	if pricePerDayCents <= 0 {
		return 0, ErrInvalidPrice
	}
	if days < MinRentalDays || days > MaxRentalDays {
		return 0, ErrInvalidDuration
	}

	switch days {
	case 3:
		// 2.5x, rounded half up to the nearest centavo
		return (pricePerDayCents*5 + 1) / 2, nil
	case 7:
		return pricePerDayCents * 5, nil
	default:
		return pricePerDayCents * int64(days), nil
	}
}

// PerDayCents spreads a total evenly over days, rounded half up.
func PerDayCents(totalCents int64, days int32) int64 {
	if days <= 0 {
		return 0
	}
	d := int64(days)
	return (totalCents*2 + d) / (2 * d)
}

// ServiceFee is ServiceFeePercent of the rental subtotal, rounded half up.
func ServiceFee(subtotalCents int64) int64 {
	if subtotalCents <= 0 {
		return 0
	}
	return (subtotalCents*ServiceFeePercent + 50) / 100
}

// Options lists the discounted durations with their prices.
func Options(pricePerDayCents int64) []DurationOption {
	opts := make([]DurationOption, 0, len(tierDays))
	for _, days := range tierDays {
		total, err := RentalCost(pricePerDayCents, days)
		if err != nil {
			continue
		}
		opts = append(opts, DurationOption{Days: days, TotalCents: total, PerDayCents: PerDayCents(total, days)})
	}
	return opts
}

// Table holds the configurable parts of the fee schedule.
type Table struct {
	DeliveryFeeCents int64
}

func NewTable(deliveryFeeCents int64) Table {
	if deliveryFeeCents <= 0 {
		deliveryFeeCents = DefaultDeliveryFeeCents
	}
	return Table{DeliveryFeeCents: deliveryFeeCents}
}

// DeliveryFee returns the flat delivery charge for an option. Pickup is free.
func (t Table) DeliveryFee(option domain.DeliveryOption) (int64, error) {
	switch option {
	case domain.DeliveryOptionPickup, "":
		return 0, nil
	case domain.DeliveryOptionDelivery:
		return t.DeliveryFeeCents, nil
	}
	return 0, ErrInvalidDeliveryOption
}

// Summarize totals cart lines: total = rental cost + delivery + service fee.
func Summarize(lines []domain.CartLine) domain.OrderSummary {
	var s domain.OrderSummary
	for _, l := range lines {
		s.RentalCostCents += l.RentalTotalCents
		s.DeliveryFeeCents += l.DeliveryFeeCents
	}
	s.ServiceFeeCents = ServiceFee(s.RentalCostCents)
	s.TotalCents = s.RentalCostCents + s.DeliveryFeeCents + s.ServiceFeeCents
	return s
}

// SplitServiceFee spreads the order's service fee over its lines in
// proportion to their rental cost. Shares are rounded down and the last line
// takes the remainder, so they always add up to Summarize's fee.
func SplitServiceFee(lines []domain.CartLine) []int64 {
	shares := make([]int64, len(lines))
	if len(lines) == 0 {
		return shares
	}
	var subtotal int64
	for _, l := range lines {
		subtotal += l.RentalTotalCents
	}
	fee := ServiceFee(subtotal)
	var given int64
	for i, l := range lines[:len(lines)-1] {
		if subtotal > 0 {
			shares[i] = fee * l.RentalTotalCents / subtotal
		}
		given += shares[i]
	}
	shares[len(lines)-1] = fee - given
	return shares
}

// ParseDate parses a yyyy-mm-dd date in UTC.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd", value)
	}
	return t, nil
}

// EndDate is the last rental day; both start and end are included.
func EndDate(start time.Time, days int32) time.Time {
	if days < 1 {
		days = 1
	}
	return start.AddDate(0, 0, int(days)-1)
}

// Today truncates now to a UTC calendar date.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatCents renders centavos as a peso amount, e.g. ₱25.00.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s₱%d.%02d", sign, cents/100, cents%100)
}
