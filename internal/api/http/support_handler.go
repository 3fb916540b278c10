package http

import (
	"net/http"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/service"
)

type SupportHandler struct {
	assistantSvc service.AssistantService
	profileSvc   service.ProfileService
}

func NewSupportHandler(assistantSvc service.AssistantService, profileSvc service.ProfileService) *SupportHandler {
	return &SupportHandler{assistantSvc: assistantSvc, profileSvc: profileSvc}
}

type supportChatRequest struct {
	Prompt  string                  `json:"prompt" validate:"required,max=2000"`
	History []service.AssistantTurn `json:"history" validate:"max=40,dive"`
}

type supportReply struct {
	Reply string `json:"reply"`
}

// Greeting personalises the opening line when the caller is signed in.
func (h *SupportHandler) Greeting(w http.ResponseWriter, r *http.Request) {
	var user *domain.User
	if actor := ActorFromContext(r.Context()); actor.UserID != 0 {
		u, err := h.profileSvc.GetProfile(r.Context(), actor.UserID)
		if err != nil {
			logger.Warn("Greeting without profile", "userID", actor.UserID, "error", err)
		} else {
			user = u
		}
	}
	writeJSON(w, http.StatusOK, supportReply{Reply: h.assistantSvc.Greeting(r.Context(), user)})
}

func (h *SupportHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req supportChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	reply, err := h.assistantSvc.Ask(r.Context(), req.History, req.Prompt)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, supportReply{Reply: reply})
}
