// Package cart holds renters' carts between browsing and checkout. Carts are
// transient: they are never written to the database.
package cart

import (
	"context"
	"errors"

	"hazel-marketplace/internal/domain"
)

var ErrAlreadyInCart = errors.New("This item is already in your cart.")

// Store keeps cart lines per user. Implementations must reject a second
// line for the same listing with ErrAlreadyInCart.
type Store interface {
	Lines(ctx context.Context, userID int32) ([]domain.CartLine, error)
	Add(ctx context.Context, userID int32, line domain.CartLine) error
	// Remove is a no-op when the listing is not in the cart.
	Remove(ctx context.Context, userID, listingID int32) error
	Clear(ctx context.Context, userID int32) error
}

func containsListing(lines []domain.CartLine, listingID int32) bool {
	for _, l := range lines {
		if l.ListingID == listingID {
			return true
		}
	}
	return false
}

func without(lines []domain.CartLine, listingID int32) []domain.CartLine {
	out := lines[:0:0]
	for _, l := range lines {
		if l.ListingID != listingID {
			out = append(out, l)
		}
	}
	return out
}
