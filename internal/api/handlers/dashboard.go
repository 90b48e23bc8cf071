package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campuslife-backend/internal/api/middleware"
	"campuslife-backend/internal/service"
)

// DashboardHandler serves the aggregated home-screen endpoint.
type DashboardHandler struct {
	service *service.DashboardService
	logger  *logrus.Logger
}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler(service *service.DashboardService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger,
	}
}

// Get returns the dashboard payload
// @Summary Get dashboard
// @Description Aggregate study stats, today's tasks and classes, notifications and recent news
// @Tags dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	dashboard, err := h.service.Get(c.Request.Context(), userID, time.Now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}
