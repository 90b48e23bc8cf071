package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/service"
	"campuslife-backend/internal/storages"
)

// respondError maps a service error onto an HTTP response. Anything outside
// the service taxonomy is a 500 and gets logged.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var insufficient *service.InsufficientFundsError
	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Insufficient funds",
			"required":  insufficient.Required,
			"available": insufficient.Available,
		})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPreconditionFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		logger.Errorf("Request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseObjectID parses a path parameter as a Mongo ObjectID.
func parseObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param})
		return primitive.NilObjectID, false
	}
	return id, true
}

// parsePage reads the page and limit query parameters with sane bounds.
func parsePage(c *gin.Context) storages.Page {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return storages.Page{Number: page, Limit: limit}
}
