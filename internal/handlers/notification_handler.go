package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/hackmate/backend/internal/feed"
	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	users                  CompactUserSource
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, users CompactUserSource) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		users:                  users,
	}
}

// RegisterNotificationRoutes registers notification routes. The group is
// expected to be protected.
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("", h.GetNotifications)
	g.GET("/unread-count", h.GetUnreadCount)
	g.PATCH("/read-all", h.MarkAllAsRead)
	g.PATCH("/:id/read", h.MarkAsRead)
}

// EnrichedNotification includes sender info
type EnrichedNotification struct {
	models.Notification
	Sender *models.UserCompact `json:"sender,omitempty"`
}

func (h *NotificationHandler) enrichNotifications(c echo.Context, notifications []models.Notification) []EnrichedNotification {
	ids := make([]uint, 0, len(notifications))
	for _, n := range notifications {
		if n.SenderID != nil {
			ids = append(ids, *n.SenderID)
		}
	}
	profiles := compactUsers(c.Request().Context(), h.users, ids)

	enriched := make([]EnrichedNotification, len(notifications))
	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if n.SenderID != nil {
			enriched[i].Sender = compactPtr(profiles, *n.SenderID)
		}
	}
	return enriched
}

// GetNotifications returns paginated notifications, newest first, with the unread total
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	p := pagination(c, feed.DefaultNotificationLimit)

	notifications, err := h.notificationRepository.GetByRecipientID(ctx, currentUserID, p.Skip(), p.Limit)
	if err != nil {
		return storeError(c, err, "")
	}
	unread, err := h.notificationRepository.GetUnreadCount(ctx, currentUserID)
	if err != nil {
		return storeError(c, err, "")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"notifications": h.enrichNotifications(c, notifications),
		"unreadCount":   unread,
		"page":          p.Page,
		"hasMore":       p.HasMore(len(notifications)),
	})
}

// GetUnreadCount returns the number of unread notifications
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	unread, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), currentUserID)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{"unreadCount": unread})
}

// MarkAsRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}
	ctx := c.Request().Context()

	notification, err := h.notificationRepository.GetNotificationByID(ctx, uint(id))
	if err != nil {
		return storeError(c, err, "Notification not found")
	}
	if notification.RecipientID != currentUserID {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized")
	}

	if err := h.notificationRepository.MarkAsRead(ctx, notification.ID); err != nil {
		return storeError(c, err, "Notification not found")
	}
	notification.Read = true
	return c.JSON(http.StatusOK, notification)
}

// MarkAllAsRead marks every unread notification of the caller as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	if _, err := h.notificationRepository.MarkAllAsRead(c.Request().Context(), currentUserID); err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}
