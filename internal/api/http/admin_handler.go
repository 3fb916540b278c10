package http

import (
	"net/http"

	"hazel-marketplace/internal/service"
)

type AdminHandler struct {
	adminSvc   service.AdminService
	profileSvc service.ProfileService
	listingSvc service.ListingService
	contentSvc service.ContentService
}

func NewAdminHandler(adminSvc service.AdminService, profileSvc service.ProfileService, listingSvc service.ListingService, contentSvc service.ContentService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, profileSvc: profileSvc, listingSvc: listingSvc, contentSvc: contentSvc}
}

type availabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type agreementRequest struct {
	Body string `json:"body" validate:"required"`
}

func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.adminSvc.Overview(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.profileSvc.ListProfiles(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	items, err := h.listingSvc.ListAll(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AdminHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req availabilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	listing, err := h.listingSvc.SetAvailability(r.Context(), ActorFromContext(r.Context()), id, *req.Available)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *AdminHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.listingSvc.Delete(r.Context(), ActorFromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *AdminHandler) GetAgreement(w http.ResponseWriter, r *http.Request) {
	content, err := h.contentSvc.GetAgreementTemplate(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

func (h *AdminHandler) UpdateAgreement(w http.ResponseWriter, r *http.Request) {
	var req agreementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	content, err := h.contentSvc.UpdateAgreementTemplate(r.Context(), ActorFromContext(r.Context()), req.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}
