package handler

import (
	"net/http"
	"strconv"

	"cutoff-alert-service/internal/domain/entity"
	"cutoff-alert-service/internal/domain/repository"
	"cutoff-alert-service/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

const (
	defaultInboxLimit = 20
	maxInboxLimit     = 100
)

// NotificationHandler serves a user's deadline notifications
type NotificationHandler struct {
	notifications repository.NotificationRepository
	log           logger.Logger
}

func NewNotificationHandler(notifications repository.NotificationRepository, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		log:           log,
	}
}

func (h *NotificationHandler) ListByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("userId")

	limit := defaultInboxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 || n > maxInboxLimit {
			if writeErr := writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid limit parameter: " + limitStr}); writeErr != nil {
				h.log.Error("failed to write JSON response", "handler", "ListByUser", "error", writeErr)
			}
			return
		}
		limit = n
	}

	notifications, err := h.notifications.FindByUser(r.Context(), userID, limit)
	if err != nil {
		h.log.Error("Failed to list notifications", "userId", userID, "error", err)
		if writeErr := writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to list notifications"}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "ListByUser", "error", writeErr)
		}
		return
	}
	if notifications == nil {
		notifications = []*entity.Notification{}
	}

	if err := writeJSON(w, http.StatusOK, notifications); err != nil {
		h.log.Error("failed to write JSON response", "handler", "ListByUser", "error", err)
	}
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/users/:userId/notifications", h.ListByUser)
}
