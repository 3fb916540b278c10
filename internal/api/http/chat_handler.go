package http

import (
	"net/http"

	"hazel-marketplace/internal/service"
)

type ChatHandler struct {
	chatSvc service.ChatService
}

func NewChatHandler(chatSvc service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

type openThreadRequest struct {
	PartnerID int32  `json:"partner_id" validate:"required,gt=0"`
	ListingID *int32 `json:"listing_id" validate:"omitempty,gt=0"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *ChatHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.chatSvc.ListThreads(r.Context(), ActorFromContext(r.Context()).UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, threads)
}

func (h *ChatHandler) OpenThread(w http.ResponseWriter, r *http.Request) {
	var req openThreadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	thread, err := h.chatSvc.OpenThread(r.Context(), ActorFromContext(r.Context()), req.PartnerID, req.ListingID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	msgs, err := h.chatSvc.Messages(r.Context(), ActorFromContext(r.Context()).UserID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.chatSvc.SendMessage(r.Context(), ActorFromContext(r.Context()), id, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
