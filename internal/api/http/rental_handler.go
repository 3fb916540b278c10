package http

import (
	"net/http"

	"hazel-marketplace/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

// ListRentals is the renter's tracker.
func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	history, err := h.rentalSvc.ListRentals(r.Context(), ActorFromContext(r.Context()).UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// ListLendings is the owner's tracker.
func (h *RentalHandler) ListLendings(w http.ResponseWriter, r *http.Request) {
	history, err := h.rentalSvc.ListLendings(r.Context(), ActorFromContext(r.Context()).UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *RentalHandler) MarkReturned(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	tx, err := h.rentalSvc.MarkReturned(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}
