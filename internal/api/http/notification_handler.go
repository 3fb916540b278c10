package http

import (
	"net/http"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/service"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

type notificationPage struct {
	Notifications []domain.Notification `json:"notifications"`
	TotalCount    int32                 `json:"total_count"`
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, total, err := h.noteSvc.GetNotifications(r.Context(), ActorFromContext(r.Context()).UserID,
		queryInt32(r, "page", 1), queryInt32(r, "page_size", 20))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationPage{Notifications: notes, TotalCount: total})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.noteSvc.MarkAsRead(r.Context(), ActorFromContext(r.Context()).UserID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
