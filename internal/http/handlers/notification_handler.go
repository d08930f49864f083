// Notification HTTP handlers.
//
//   - GET  /users/{id}/notifications         (inbox, optionally unread only)
//   - POST /notifications/{id}/read          (mark one as read)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
	"github.com/podtruth/go-factcheck-backend/internal/services"
	"github.com/podtruth/go-factcheck-backend/internal/sysutil"
)

// NotificationListResponse wraps a user's notification inbox.
type NotificationListResponse struct {
	Notifications []domain.Notification `json:"notifications"`
}

// ListNotifications godoc
// @ID          listNotifications
// @Summary     List a user's notifications
// @Description Returns notifications newest first; pass unread=true to filter to unread only.
// @Tags        Notifications
// @Produce     json
// @Param       id     path  string true  "User ID"
// @Param       unread query bool   false "Unread only"
// @Success     200 {object} handlers.NotificationListResponse
// @Router      /users/{id}/notifications [get]
func (h *Handlers) ListNotifications(c *gin.Context) {
	unreadOnly := sysutil.IsTruthy(c.Query("unread"))
	ns, err := h.notifications.List(c.Request.Context(), c.Param("id"), unreadOnly)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if ns == nil {
		ns = []domain.Notification{}
	}
	ok(c, http.StatusOK, NotificationListResponse{Notifications: ns})
}

// MarkNotificationRead godoc
// @ID          markNotificationRead
// @Summary     Mark a notification as read
// @Description Marks the notification read for the calling user. Only the owner may mark their notifications.
// @Tags        Notifications
// @Param       X-User-ID header string false "User ID (demo header)" example(user123)
// @Param       id        path   string true  "Notification ID (UUID)" format(uuid)
// @Success     204 "Marked read"
// @Failure     404 {object} handlers.ErrorResponse "Notification not found"
// @Router      /notifications/{id}/read [post]
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	err := h.notifications.MarkRead(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "notification not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
