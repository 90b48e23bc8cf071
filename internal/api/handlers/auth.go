package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/api/middleware"
	"campuslife-backend/internal/service"
	"campuslife-backend/internal/storages"
)

// AuthHandler serves registration, login and profile endpoints.
type AuthHandler struct {
	service           *service.AuthService
	jwtMiddleware     *middleware.JWTMiddleware
	expiration        time.Duration
	refreshExpiration time.Duration
	logger            *logrus.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(service *service.AuthService, jwtMiddleware *middleware.JWTMiddleware, expiration, refreshExpiration time.Duration, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		service:           service,
		jwtMiddleware:     jwtMiddleware,
		expiration:        expiration,
		refreshExpiration: refreshExpiration,
		logger:            logger,
	}
}

// issueTokens signs an access and a refresh token for the user.
func (h *AuthHandler) issueTokens(user *storages.User) (string, string, error) {
	token, err := h.jwtMiddleware.GenerateToken(user.ID, user.Email, h.expiration)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := h.jwtMiddleware.GenerateToken(user.ID, user.Email, h.refreshExpiration)
	if err != nil {
		return "", "", err
	}
	return token, refreshToken, nil
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	FullName   string `json:"fullName" binding:"required,min=2,max=100"`
	Email      string `json:"email" binding:"required,email"`
	StudentID  string `json:"studentId" binding:"required"`
	Password   string `json:"password" binding:"required,min=6"`
	University string `json:"university"`
	Department string `json:"department"`
	Level      string `json:"level"`
}

// LoginRequest is the sign-in payload. Identifier is an email or student ID.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// ChangePasswordRequest carries the old and new password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// Register creates a new student account
// @Summary Register a new user
// @Description Register a student account with email and student ID
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.service.Register(c.Request.Context(), service.RegisterInput{
		FullName:   req.FullName,
		Email:      req.Email,
		StudentID:  req.StudentID,
		Password:   req.Password,
		University: req.University,
		Department: req.Department,
		Level:      req.Level,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	token, refreshToken, err := h.issueTokens(user)
	if err != nil {
		h.logger.Errorf("Failed to generate tokens: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "User registered successfully",
		"token":        token,
		"refreshToken": refreshToken,
		"user":         user,
	})
}

// Login authenticates a user
// @Summary Login user
// @Description Authenticate with email or student ID and return a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.service.Authenticate(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	token, refreshToken, err := h.issueTokens(user)
	if err != nil {
		h.logger.Errorf("Failed to generate tokens: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "refreshToken": refreshToken, "user": user})
}

// RefreshRequest carries the refresh token issued at login.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken exchanges a valid refresh token for a new access token
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	claims, err := h.jwtMiddleware.ParseToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is deactivated"})
		return
	}

	token, err := h.jwtMiddleware.GenerateToken(user.ID, user.Email, h.expiration)
	if err != nil {
		h.logger.Errorf("Failed to generate token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GetProfile returns the caller's account
// @Summary Get profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile edits the caller's account
// @Summary Update profile
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.ProfileUpdate true "Profile fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var update service.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

// ChangePassword rotates the caller's password
// @Summary Change password
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Password change"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
