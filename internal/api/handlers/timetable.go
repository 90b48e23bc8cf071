package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campuslife-backend/internal/api/middleware"
	"campuslife-backend/internal/service"
	"campuslife-backend/internal/storages"
)

// TimetableHandler serves the timetable endpoints.
type TimetableHandler struct {
	service *service.TimetableService
	logger  *logrus.Logger
}

// NewTimetableHandler creates the timetable handler.
func NewTimetableHandler(service *service.TimetableService, logger *logrus.Logger) *TimetableHandler {
	return &TimetableHandler{
		service: service,
		logger:  logger,
	}
}

// ReplaceTimetableRequest swaps the whole schedule.
type ReplaceTimetableRequest struct {
	Semester     string                  `json:"semester"`
	AcademicYear string                  `json:"academicYear"`
	Schedule     []storages.ScheduleItem `json:"schedule" binding:"required"`
}

// Get returns the caller's timetable
// @Summary Get timetable
// @Tags timetable
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/timetable [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	t, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"timetable": t})
}

// Replace swaps the whole schedule
// @Summary Replace timetable
// @Tags timetable
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ReplaceTimetableRequest true "New schedule"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/timetable [put]
func (h *TimetableHandler) Replace(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req ReplaceTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	t, err := h.service.Replace(c.Request.Context(), userID, req.Semester, req.AcademicYear, req.Schedule)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Timetable updated",
		"timetable": t,
	})
}

// AddItem appends one class slot
// @Summary Add a schedule item
// @Tags timetable
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body storages.ScheduleItem true "Class slot"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/timetable/items [post]
func (h *TimetableHandler) AddItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var item storages.ScheduleItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	t, err := h.service.AddItem(c.Request.Context(), userID, item)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Schedule item added",
		"timetable": t,
	})
}

// UpdateItem edits one class slot
// @Summary Update a schedule item
// @Tags timetable
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body storages.ScheduleItem true "Class slot"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/timetable/items/{id} [put]
func (h *TimetableHandler) UpdateItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var item storages.ScheduleItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	t, err := h.service.UpdateItem(c.Request.Context(), userID, id, item)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Schedule item updated",
		"timetable": t,
	})
}

// RemoveItem deletes one class slot
// @Summary Remove a schedule item
// @Tags timetable
// @Security BearerAuth
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/timetable/items/{id} [delete]
func (h *TimetableHandler) RemoveItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	t, err := h.service.RemoveItem(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Schedule item removed",
		"timetable": t,
	})
}

// Today returns the day's classes
// @Summary Get today's classes
// @Tags timetable
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/timetable/today [get]
func (h *TimetableHandler) Today(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	classes, err := h.service.Today(c.Request.Context(), userID, time.Now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"classes": classes})
}
