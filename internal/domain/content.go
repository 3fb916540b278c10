package domain

import "time"

const ContentKeyRentalAgreement = "rental_agreement"

type SiteContent struct {
	Key       string    `json:"key"`
	Body      string    `json:"body"`
	UpdatedBy *int32    `json:"updated_by,omitempty"`
	UpdatedOn time.Time `json:"updated_on"`
}

type AdminOverview struct {
	TotalUsers    int32 `json:"total_users"`
	TotalListings int32 `json:"total_listings"`
	ActiveRentals int32 `json:"active_rentals"`
}
