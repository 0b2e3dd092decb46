package api

import (
	"net/http"

	"amfit/coach-app/internal/domain"
	"amfit/coach-app/internal/logger"
	"amfit/coach-app/internal/metrics"
	"amfit/coach-app/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService service.NotificationService
	metrics             *metrics.Metrics
	log                 *logger.Logger
}

func NewNotificationHandler(notificationService service.NotificationService, m *metrics.Metrics, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		metrics:             m,
		log:                 log.With("handler", "NotificationHandler"),
	}
}

// ListNotifications godoc
// @Summary The caller's notifications, newest first
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} NotificationResponse
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	notifications, err := h.notificationService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve notifications.")
		return
	}
	c.JSON(http.StatusOK, MapNotificationsToResponse(notifications))
}

// MarkRead godoc
// @Summary Mark one of the caller's notifications as read
// @Tags Notifications
// @Security BearerAuth
// @Param notificationId path string true "Notification ID"
// @Success 204
// @Router /notifications/{notificationId}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "notificationId")
	if !ok {
		return
	}
	if err := h.notificationService.MarkRead(c.Request.Context(), id, userID); err != nil {
		respondError(c, err, "Failed to update notification.")
		return
	}
	c.Status(http.StatusNoContent)
}

// StreamNotifications godoc
// @Summary Live notifications
// @Description Server-sent "notification" events for the caller. Missed events are available from the list endpoint.
// @Tags Notifications
// @Produce text/event-stream
// @Security BearerAuth
// @Failure 503 {object} gin.H "Live feed disabled or unavailable"
// @Router /notifications/stream [get]
func (h *NotificationHandler) StreamNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sub, err := h.notificationService.Subscribe(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Live notifications are unavailable.")
		return
	}
	defer sub.Close()
	defer h.metrics.SubscriptionOpened("notifications")()

	streamSubscription(c, h.log, sub, "notification", func(n domain.Notification) NotificationResponse {
		return MapNotificationToResponse(&n)
	})
}
