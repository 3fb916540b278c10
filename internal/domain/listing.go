package domain

import "time"

type ListingStatus string

const (
	ListingStatusApproved    ListingStatus = "approved"
	ListingStatusUnavailable ListingStatus = "unavailable"
)

type Category struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// Listing is a rentable item. Prices are stored in centavos.
type Listing struct {
	ID               int32     `json:"id"`
	OwnerID          int32     `json:"owner_id"`
	OwnerName        string    `json:"owner_name"`
	OwnerEmail       string    `json:"owner_email,omitempty"`
	CategoryID       int32     `json:"category_id"`
	CategoryName     string    `json:"category"`
	Title            string    `json:"title"`
	FullTitle        string    `json:"full_title,omitempty"`
	Description      string    `json:"description"`
	PricePerDayCents int64     `json:"price_per_day_cents"`
	ImageURL         string    `json:"image_url"`
	Tags             []string  `json:"tags"`
	TrackingTagID    string    `json:"tracking_tag_id,omitempty"`
	OwnerTerms       string    `json:"owner_terms,omitempty"`
	Available        bool      `json:"available"`
	CreatedOn        time.Time `json:"created_on"`
	UpdatedOn        time.Time `json:"updated_on"`
}

// Status maps the availability flag to the label shown in listing management.
func (l *Listing) Status() ListingStatus {
	if l.Available {
		return ListingStatusApproved
	}
	return ListingStatusUnavailable
}

// ListingFilter narrows a browse query. Page is 1-based.
type ListingFilter struct {
	Category        string
	Term            string
	OwnerID         int32
	IncludeInactive bool
	Page            int32
	PageSize        int32
}

type Favorite struct {
	UserID    int32     `json:"user_id"`
	ListingID int32     `json:"listing_id"`
	CreatedOn time.Time `json:"created_on"`
}

type Review struct {
	ID           int32     `json:"id"`
	ListingID    int32     `json:"listing_id"`
	UserID       int32     `json:"user_id"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       int32     `json:"rating"`
	Body         string    `json:"body"`
	CreatedOn    time.Time `json:"created_on"`
}
