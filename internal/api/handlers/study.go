package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campuslife-backend/internal/api/middleware"
	"campuslife-backend/internal/service"
)

// StudyHandler serves the study-tracking endpoints.
type StudyHandler struct {
	service *service.StudyService
	logger  *logrus.Logger
}

// NewStudyHandler creates the study handler.
func NewStudyHandler(service *service.StudyService, logger *logrus.Logger) *StudyHandler {
	return &StudyHandler{
		service: service,
		logger:  logger,
	}
}

// LogSessionRequest is the session payload. Duration is in minutes.
type LogSessionRequest struct {
	Duration int    `json:"duration" binding:"required,gt=0"`
	Subject  string `json:"subject"`
}

// GetStats returns the study counters
// @Summary Get study stats
// @Tags study
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/study/stats [get]
func (h *StudyHandler) GetStats(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	stats, err := h.service.GetStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// LogSession records a study sitting
// @Summary Log a study session
// @Description Record minutes studied and advance the daily streak
// @Tags study
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body LogSessionRequest true "Session data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/study/sessions [post]
func (h *StudyHandler) LogSession(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req LogSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	stats, err := h.service.LogSession(c.Request.Context(), userID, req.Duration, req.Subject, time.Now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Study session logged",
		"stats":   stats,
	})
}

// UpdateGoals sets the study goals
// @Summary Update study goals
// @Tags study
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.GoalsUpdate true "Goals in minutes"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/study/goals [put]
func (h *StudyHandler) UpdateGoals(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var update service.GoalsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	stats, err := h.service.UpdateGoals(c.Request.Context(), userID, update)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Goals updated",
		"stats":   stats,
	})
}

// GetAnalytics returns per-day study aggregates
// @Summary Get study analytics
// @Tags study
// @Security BearerAuth
// @Produce json
// @Param period query string false "week, month or year"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/study/analytics [get]
func (h *StudyHandler) GetAnalytics(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	analytics, err := h.service.GetAnalytics(c.Request.Context(), userID, c.Query("period"), time.Now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analytics": analytics})
}
