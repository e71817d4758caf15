package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/apiserver/middleware"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/store/postgres"
)

type NotificationHandler struct {
	notifications *postgres.NotificationRepository
	logger        *zap.Logger
}

func NewNotificationHandler(notifications *postgres.NotificationRepository, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: logger}
}

type notificationResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Message   string  `json:"message,omitempty"`
	ProjectID *string `json:"project_id,omitempty"`
	Read      bool    `json:"read"`
	CreatedAt string  `json:"created_at"`
}

// List returns the authenticated user's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	principal, _ := middleware.Principal(c)

	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))
	limit := parseLimit(c.Query("limit"), 50)
	offset := parseOffset(c.Query("offset"))

	notifications, total, err := h.notifications.ListForUser(c.Request.Context(), principal.UserID, unreadOnly, limit, offset)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	response := make([]notificationResponse, 0, len(notifications))
	for i := range notifications {
		response = append(response, mapNotification(&notifications[i]))
	}

	respond(c, http.StatusOK, "", gin.H{"notifications": response, "total": total})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid notification id")
		return
	}

	principal, _ := middleware.Principal(c)
	if err := h.notifications.MarkRead(c.Request.Context(), id, principal.UserID); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "notification marked read", nil)
}

func mapNotification(n *model.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		ProjectID: uuidString(n.ProjectID),
		Read:      n.Read,
		CreatedAt: n.CreatedAt.UTC().Format(timeRFC3339Nano),
	}
}
