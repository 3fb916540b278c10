package http

import (
	"errors"
	"net/http"

	"hazel-marketplace/internal/cart"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/pricing"
	"hazel-marketplace/internal/security"
	"hazel-marketplace/internal/service"
	"hazel-marketplace/internal/storage"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{service.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{pricing.ErrInvalidDuration, http.StatusBadRequest, "invalid_input"},
	{pricing.ErrInvalidDeliveryOption, http.StatusBadRequest, "invalid_input"},
	{security.ErrPasswordTooShort, http.StatusBadRequest, "invalid_input"},
	{security.ErrPasswordMismatch, http.StatusBadRequest, "invalid_input"},
	{service.ErrInvalidRole, http.StatusBadRequest, "invalid_role"},
	{service.ErrCategoryNotFound, http.StatusBadRequest, "invalid_category"},
	{service.ErrStartDateRequired, http.StatusBadRequest, "invalid_start_date"},
	{service.ErrStartDateInPast, http.StatusBadRequest, "invalid_start_date"},
	{service.ErrCartEmpty, http.StatusBadRequest, "cart_empty"},
	{service.ErrAgreementRequired, http.StatusBadRequest, "agreement_required"},
	{service.ErrInvalidCardNumber, http.StatusBadRequest, "invalid_payment"},
	{service.ErrInvalidExpiry, http.StatusBadRequest, "invalid_payment"},
	{service.ErrCardExpired, http.StatusBadRequest, "invalid_payment"},
	{service.ErrInvalidCVV, http.StatusBadRequest, "invalid_payment"},
	{service.ErrChatWithSelf, http.StatusBadRequest, "invalid_input"},
	{service.ErrEmptyMessage, http.StatusBadRequest, "invalid_input"},
	{service.ErrMessageTooLong, http.StatusBadRequest, "invalid_input"},
	{service.ErrInvalidReview, http.StatusBadRequest, "invalid_input"},
	{service.ErrEmptyPrompt, http.StatusBadRequest, "invalid_input"},
	{service.ErrTemplateEmpty, http.StatusBadRequest, "invalid_input"},
	{storage.ErrInvalidKey, http.StatusBadRequest, "invalid_key"},

	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{security.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{security.ErrExpiredToken, http.StatusUnauthorized, "token_expired"},
	{security.ErrRevokedToken, http.StatusUnauthorized, "invalid_token"},
	{security.ErrWrongTokenType, http.StatusUnauthorized, "invalid_token"},

	{service.ErrWrongPortal, http.StatusForbidden, "wrong_portal"},
	{service.ErrForbidden, http.StatusForbidden, "forbidden"},
	{service.ErrOwnersOnly, http.StatusForbidden, "owners_only"},
	{service.ErrRentersOnly, http.StatusForbidden, "renters_only"},
	{service.ErrOwnItem, http.StatusForbidden, "own_item"},

	{service.ErrUserNotFound, http.StatusNotFound, "not_found"},
	{service.ErrListingNotFound, http.StatusNotFound, "not_found"},
	{service.ErrOrderNotFound, http.StatusNotFound, "not_found"},
	{service.ErrRentalNotFound, http.StatusNotFound, "not_found"},
	{service.ErrThreadNotFound, http.StatusNotFound, "not_found"},
	{service.ErrNotificationNotFound, http.StatusNotFound, "not_found"},
	{storage.ErrFileNotFound, http.StatusNotFound, "not_found"},

	{service.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{cart.ErrAlreadyInCart, http.StatusConflict, "already_in_cart"},
	{service.ErrRentalNotReturnable, http.StatusConflict, "invalid_status"},

	{storage.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "file_too_large"},
	{storage.ErrUnsupportedType, http.StatusUnsupportedMediaType, "unsupported_type"},
}

// writeServiceError maps a service error to its status code. Unknown errors
// are logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, err.Error(), nil)
			return
		}
	}
	logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred.", nil)
}
