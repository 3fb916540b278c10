package http

import (
	"net/http"

	"hazel-marketplace/internal/service"
)

type ProfileHandler struct {
	profileSvc  service.ProfileService
	favoriteSvc service.FavoriteService
}

func NewProfileHandler(profileSvc service.ProfileService, favoriteSvc service.FavoriteService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc, favoriteSvc: favoriteSvc}
}

type updateProfileRequest struct {
	FullName      string `json:"full_name" validate:"max=200"`
	FirstName     string `json:"first_name" validate:"max=100"`
	LastName      string `json:"last_name" validate:"max=100"`
	Phone         string `json:"phone" validate:"max=32"`
	Location      string `json:"location" validate:"max=200"`
	Address       string `json:"address" validate:"max=500"`
	ProfilePicURL string `json:"profile_pic_url" validate:"omitempty,url"`
}

type favoriteRequest struct {
	ItemID int32 `json:"item_id" validate:"required,gt=0"`
}

func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.profileSvc.GetProfile(r.Context(), ActorFromContext(r.Context()).UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.profileSvc.UpdateProfile(r.Context(), ActorFromContext(r.Context()).UserID, service.ProfileUpdate(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	items, err := h.favoriteSvc.List(r.Context(), ActorFromContext(r.Context()).UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ProfileHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.favoriteSvc.Add(r.Context(), ActorFromContext(r.Context()).UserID, req.ItemID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *ProfileHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	if err := h.favoriteSvc.Remove(r.Context(), ActorFromContext(r.Context()).UserID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
