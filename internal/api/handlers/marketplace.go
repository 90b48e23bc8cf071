package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campuslife-backend/internal/api/middleware"
	"campuslife-backend/internal/service"
	"campuslife-backend/internal/storages"
)

// MarketplaceHandler serves the past-question marketplace endpoints.
type MarketplaceHandler struct {
	service *service.MarketplaceService
	logger  *logrus.Logger
}

// NewMarketplaceHandler creates the marketplace handler.
func NewMarketplaceHandler(service *service.MarketplaceService, logger *logrus.Logger) *MarketplaceHandler {
	return &MarketplaceHandler{
		service: service,
		logger:  logger,
	}
}

// RateRequest is the rating payload.
type RateRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// questionFilter builds the listing filter from query parameters.
func questionFilter(c *gin.Context) storages.QuestionFilter {
	filter := storages.QuestionFilter{
		CourseCode: c.Query("courseCode"),
		CourseName: c.Query("courseName"),
		Semester:   c.Query("semester"),
		Level:      c.Query("level"),
		Search:     c.Query("search"),
		SortBy:     c.Query("sortBy"),
		SortDesc:   c.Query("order") != "asc",
	}
	if paid := c.Query("isPaid"); paid != "" {
		value := paid == "true"
		filter.IsPaid = &value
	}
	return filter
}

// List returns a page of past questions
// @Summary List past questions
// @Tags past-questions
// @Security BearerAuth
// @Produce json
// @Param courseCode query string false "Course code"
// @Param semester query string false "Semester"
// @Param level query string false "Level"
// @Param isPaid query bool false "Paid filter"
// @Param search query string false "Search term"
// @Param page query int false "Page number"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/past-questions [get]
func (h *MarketplaceHandler) List(c *gin.Context) {
	questions, pagination, err := h.service.List(c.Request.Context(), questionFilter(c), parsePage(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pastQuestions": questions,
		"pagination":    pagination,
	})
}

// Get returns one past question
// @Summary Get a past question
// @Tags past-questions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/past-questions/{id} [get]
func (h *MarketplaceHandler) Get(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	question, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pastQuestion": question})
}

// Upload publishes a past question
// @Summary Upload a past question
// @Tags past-questions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.UploadInput true "Upload data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/past-questions [post]
func (h *MarketplaceHandler) Upload(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input service.UploadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	question, err := h.service.Upload(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Past question uploaded successfully",
		"pastQuestion": question,
	})
}

// MyUploads lists the caller's uploads
// @Summary List my uploads
// @Tags past-questions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/past-questions/my-uploads [get]
func (h *MarketplaceHandler) MyUploads(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	uploads, err := h.service.MyUploads(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploads": uploads})
}

// Download buys and downloads a past question
// @Summary Download a past question
// @Description Settle the purchase if the question is paid, then return the file URL
// @Tags past-questions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/past-questions/{id}/download [post]
func (h *MarketplaceHandler) Download(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Download(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Rate rates a downloaded past question
// @Summary Rate a past question
// @Tags past-questions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param request body RateRequest true "Rating"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/past-questions/{id}/rate [post]
func (h *MarketplaceHandler) Rate(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	question, err := h.service.Rate(c.Request.Context(), userID, id, req.Rating)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Rating recorded",
		"rating":  question.Rating,
		"count":   question.RatingCount,
	})
}
