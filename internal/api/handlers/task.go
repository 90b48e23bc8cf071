package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campuslife-backend/internal/api/middleware"
	"campuslife-backend/internal/service"
	"campuslife-backend/internal/storages"
	"campuslife-backend/pkg"
)

// TaskHandler serves the task endpoints.
type TaskHandler struct {
	service *service.TaskService
	logger  *logrus.Logger
}

// NewTaskHandler creates the task handler.
func NewTaskHandler(service *service.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		logger:  logger,
	}
}

// taskFilter builds the listing filter from query parameters.
func taskFilter(c *gin.Context) (storages.TaskFilter, error) {
	filter := storages.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		SortBy:   c.Query("sortBy"),
		SortDesc: c.Query("order") == "desc",
	}
	if due := c.Query("dueOn"); due != "" {
		day, err := time.Parse("2006-01-02", due)
		if err != nil {
			return filter, err
		}
		day = pkg.DayStart(day)
		filter.DueOn = &day
	}
	return filter, nil
}

// List returns a page of the caller's tasks
// @Summary List tasks
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param category query string false "Category filter"
// @Param dueOn query string false "Due date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	filter, err := taskFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dueOn date, expected YYYY-MM-DD"})
		return
	}

	tasks, pagination, err := h.service.List(c.Request.Context(), userID, filter, parsePage(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":      tasks,
		"pagination": pagination,
	})
}

// Get returns one task
// @Summary Get a task
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	task, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// Create adds a task
// @Summary Create a task
// @Tags tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.TaskInput true "Task data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input service.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	task, err := h.service.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created",
		"task":    task,
	})
}

// Update edits a task
// @Summary Update a task
// @Description Apply field changes; the first transition to completed feeds the study counters
// @Tags tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body service.TaskUpdate true "Task fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var update service.TaskUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	task, err := h.service.Update(c.Request.Context(), userID, id, update)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated",
		"task":    task,
	})
}

// Delete soft-deletes a task
// @Summary Delete a task
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// Upcoming lists tasks due within the next days
// @Summary List upcoming tasks
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param days query int false "Window in days (default 7)"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/tasks/upcoming [get]
func (h *TaskHandler) Upcoming(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days, expected a positive integer"})
		return
	}

	tasks, err := h.service.Upcoming(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// Overdue lists tasks past their due date
// @Summary List overdue tasks
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/tasks/overdue [get]
func (h *TaskHandler) Overdue(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tasks, err := h.service.Overdue(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}
