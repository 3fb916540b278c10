package service

import (
	"errors"
	"fmt"

	"hazel-marketplace/internal/domain"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("You do not have permission to do that.")
	ErrInvalidCredentials = errors.New("Login failed")
	ErrWrongPortal        = errors.New("incorrect portal")
	ErrEmailTaken         = errors.New("An account with this email already exists.")
	ErrInvalidRole        = errors.New("Please choose to sign up as a renter or an owner.")
	ErrUserNotFound       = errors.New("user not found")

	ErrListingNotFound  = errors.New("Sorry, that listing could not be found.")
	ErrCategoryNotFound = errors.New("unknown category")
	ErrOwnersOnly       = errors.New("Only owners can list items.")

	ErrRentersOnly         = errors.New("Please login to rent an item.")
	ErrOwnItem             = errors.New("You cannot rent your own item.")
	ErrStartDateRequired   = errors.New("Please select a rental start date.")
	ErrStartDateInPast     = errors.New("Rental start date cannot be in the past.")
	ErrCartEmpty           = errors.New("Your cart is empty or you are not logged in.")
	ErrAgreementRequired   = errors.New("You must agree to the rental agreement to continue.")
	ErrInvalidCardNumber   = errors.New("Please enter a valid card number.")
	ErrInvalidExpiry       = errors.New("Please enter a valid expiry date (MM/YY).")
	ErrCardExpired         = errors.New("This card has expired.")
	ErrInvalidCVV          = errors.New("Please enter a valid CVV.")
	ErrOrderNotFound       = errors.New("order not found")
	ErrRentalNotFound      = errors.New("rental not found")
	ErrRentalNotReturnable = errors.New("Only active or overdue rentals can be marked as returned.")

	ErrChatWithSelf         = errors.New("You cannot start a chat with yourself.")
	ErrThreadNotFound       = errors.New("conversation not found")
	ErrEmptyMessage         = errors.New("Message cannot be empty.")
	ErrMessageTooLong       = errors.New("Message cannot be longer than 2000 characters.")
	ErrInvalidReview        = errors.New("Please provide a rating and a review text.")
	ErrEmptyPrompt          = errors.New("Please type a question first.")
	ErrTemplateEmpty        = errors.New("The rental agreement cannot be empty.")
	ErrNotificationNotFound = errors.New("notification not found")
)

// PortalError is returned when an account logs in through another role's portal.
type PortalError struct {
	Role   domain.UserRole
	Portal domain.UserRole
}

func (e *PortalError) Error() string {
	return fmt.Sprintf("Incorrect portal: A '%s' account cannot log in via the '%s' portal.", e.Role, e.Portal)
}

func (e *PortalError) Is(target error) bool {
	return target == ErrWrongPortal
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}
