package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/service"
)

type CartHandler struct {
	cartSvc     service.CartService
	checkoutSvc service.CheckoutService
}

func NewCartHandler(cartSvc service.CartService, checkoutSvc service.CheckoutService) *CartHandler {
	return &CartHandler{cartSvc: cartSvc, checkoutSvc: checkoutSvc}
}

type addToCartRequest struct {
	ListingID      int32  `json:"listing_id" validate:"required,gt=0"`
	DurationDays   int32  `json:"rental_duration_days" validate:"required,gt=0"`
	StartDate      string `json:"rental_start_date" validate:"required"`
	DeliveryOption string `json:"delivery_option" validate:"omitempty,oneof=pickup delivery"`
}

type paymentRequest struct {
	CardholderName string `json:"cardholder_name" validate:"required"`
	CardNumber     string `json:"card_number" validate:"required"`
	Expiry         string `json:"expiry" validate:"required"`
	CVV            string `json:"cvv" validate:"required"`
}

type checkoutRequest struct {
	Agreed  bool           `json:"agreed"`
	Payment paymentRequest `json:"payment"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartSvc.Get(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cart, err := h.cartSvc.AddItem(r.Context(), ActorFromContext(r.Context()), service.AddToCartInput{
		ListingID:      req.ListingID,
		DurationDays:   req.DurationDays,
		StartDate:      req.StartDate,
		DeliveryOption: domain.DeliveryOption(req.DeliveryOption),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	cart, err := h.cartSvc.RemoveItem(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cartSvc.Clear(r.Context(), ActorFromContext(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// Agreement returns the rental agreement rendered for the current cart.
func (h *CartHandler) Agreement(w http.ResponseWriter, r *http.Request) {
	html, err := h.checkoutSvc.PreviewAgreement(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	receipt, err := h.checkoutSvc.Checkout(r.Context(), ActorFromContext(r.Context()), service.CheckoutInput{
		Agreed:  req.Agreed,
		Payment: service.PaymentDetails(req.Payment),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (h *CartHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.checkoutSvc.Receipt(r.Context(), ActorFromContext(r.Context()), mux.Vars(r)["ref"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}
