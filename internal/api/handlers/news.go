package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campuslife-backend/internal/api/middleware"
	"campuslife-backend/internal/service"
	"campuslife-backend/internal/storages"
)

// NewsHandler serves the campus news endpoints.
type NewsHandler struct {
	service *service.NewsService
	logger  *logrus.Logger
}

// NewNewsHandler creates the news handler.
func NewNewsHandler(service *service.NewsService, logger *logrus.Logger) *NewsHandler {
	return &NewsHandler{
		service: service,
		logger:  logger,
	}
}

// List returns a page of published articles
// @Summary List news
// @Tags news
// @Security BearerAuth
// @Produce json
// @Param category query string false "Category filter"
// @Param search query string false "Search term"
// @Param page query int false "Page number"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/news [get]
func (h *NewsHandler) List(c *gin.Context) {
	filter := storages.NewsFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		SortBy:   c.Query("sortBy"),
		SortDesc: c.Query("order") != "asc",
	}

	articles, pagination, err := h.service.List(c.Request.Context(), filter, parsePage(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"news":       articles,
		"pagination": pagination,
	})
}

// Get returns one article and counts the view
// @Summary Get an article
// @Tags news
// @Security BearerAuth
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/news/{id} [get]
func (h *NewsHandler) Get(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	article, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"article": article})
}

// Create publishes an article
// @Summary Create an article
// @Tags news
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.NewsInput true "Article data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/news [post]
func (h *NewsHandler) Create(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input service.NewsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	article, err := h.service.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Article published",
		"article": article,
	})
}

// Update edits an article
// @Summary Update an article
// @Tags news
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Article ID"
// @Param request body service.NewsUpdate true "Article fields"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/news/{id} [put]
func (h *NewsHandler) Update(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var update service.NewsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	article, err := h.service.Update(c.Request.Context(), id, update)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Article updated",
		"article": article,
	})
}

// Delete removes an article
// @Summary Delete an article
// @Tags news
// @Security BearerAuth
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/news/{id} [delete]
func (h *NewsHandler) Delete(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
}

// Categories returns article counts per category
// @Summary List news categories
// @Tags news
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/news/categories [get]
func (h *NewsHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
