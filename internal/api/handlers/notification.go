package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campuslife-backend/internal/api/middleware"
	"campuslife-backend/internal/service"
	"campuslife-backend/internal/storages"
)

// NotificationHandler serves the notification inbox endpoints.
type NotificationHandler struct {
	service *service.NotificationService
	logger  *logrus.Logger
}

// NewNotificationHandler creates the notification handler.
func NewNotificationHandler(service *service.NotificationService, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger,
	}
}

// List returns a page of notifications
// @Summary List notifications
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param isRead query bool false "Read filter"
// @Param category query string false "Category filter"
// @Param page query int false "Page number"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	filter := storages.NotificationFilter{Category: c.Query("category")}
	if read := c.Query("isRead"); read != "" {
		value := read == "true"
		filter.IsRead = &value
	}

	inbox, err := h.service.List(c.Request.Context(), userID, filter, parsePage(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, inbox)
}

// UnreadCount returns the unread badge count
// @Summary Get unread count
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unreadCount": count})
}

// MarkRead marks one notification read
// @Summary Mark a notification read
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	n, err := h.service.MarkRead(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Notification marked as read",
		"notification": n,
	})
}

// MarkAllRead marks every notification read
// @Summary Mark all notifications read
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/v1/notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.service.MarkAllRead(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// Delete soft-deletes one notification
// @Summary Delete a notification
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
