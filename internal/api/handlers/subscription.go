package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campuslife-backend/internal/api/middleware"
	"campuslife-backend/internal/service"
)

// SubscriptionHandler serves the subscription endpoints.
type SubscriptionHandler struct {
	service *service.SubscriptionService
	logger  *logrus.Logger
}

// NewSubscriptionHandler creates the subscription handler.
func NewSubscriptionHandler(service *service.SubscriptionService, logger *logrus.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
		logger:  logger,
	}
}

// SubscribeRequest is the plan-change payload.
type SubscribeRequest struct {
	Plan             string `json:"plan" binding:"required"`
	PaymentReference string `json:"paymentReference"`
	DurationDays     int    `json:"durationDays"`
}

// Get returns the caller's subscription
// @Summary Get subscription
// @Tags subscription
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/subscription [get]
func (h *SubscriptionHandler) Get(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sub, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// Plans returns the tier catalogue
// @Summary List subscription plans
// @Tags subscription
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/subscription/plans [get]
func (h *SubscriptionHandler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.service.Plans()})
}

// Subscribe switches the caller's plan
// @Summary Subscribe to a plan
// @Tags subscription
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SubscribeRequest true "Plan change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/subscription [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), userID, req.Plan, req.PaymentReference, req.DurationDays)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Subscription updated",
		"subscription": sub,
	})
}

// Cancel disables auto-renewal
// @Summary Cancel subscription
// @Description Turn off auto-renewal; the plan stays valid until expiry
// @Tags subscription
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/subscription [delete]
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sub, err := h.service.Cancel(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Auto-renewal disabled",
		"subscription": sub,
	})
}
