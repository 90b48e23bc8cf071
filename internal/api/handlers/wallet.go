package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campuslife-backend/internal/api/middleware"
	"campuslife-backend/internal/service"
	"campuslife-backend/internal/storages"
)

// WalletHandler serves the wallet endpoints.
type WalletHandler struct {
	service *service.WalletService
	logger  *logrus.Logger
}

// NewWalletHandler creates the wallet handler.
func NewWalletHandler(service *service.WalletService, logger *logrus.Logger) *WalletHandler {
	return &WalletHandler{
		service: service,
		logger:  logger,
	}
}

// WithdrawRequest is the withdrawal payload.
type WithdrawRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	BankName      string  `json:"bankName" binding:"required"`
	AccountNumber string  `json:"accountNumber" binding:"required"`
	AccountName   string  `json:"accountName"`
}

// FundRequest is the funding payload.
type FundRequest struct {
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Reference string  `json:"reference"`
}

// GetBalance returns the wallet overview
// @Summary Get wallet balance
// @Description Get balance, lifetime totals and recent earnings
// @Tags wallet
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /api/v1/wallet/balance [get]
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summary, err := h.service.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetTransactions returns the wallet audit trail
// @Summary List transactions
// @Description List wallet transactions, newest first, optionally filtered by type
// @Tags wallet
// @Security BearerAuth
// @Produce json
// @Param type query string false "Transaction type"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /api/v1/wallet/transactions [get]
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	transactions, pagination, err := h.service.ListTransactions(c.Request.Context(), userID, c.Query("type"), parsePage(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"pagination":   pagination,
	})
}

// Withdraw submits a withdrawal request
// @Summary Withdraw funds
// @Description Submit a withdrawal to a bank account; the request stays pending until processed
// @Tags wallet
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body WithdrawRequest true "Withdrawal data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/wallet/withdraw [post]
func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.service.Withdraw(c.Request.Context(), userID, req.Amount, storages.BankDetails{
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Withdrawal request submitted",
		"withdrawal": result,
	})
}

// Fund credits the wallet
// @Summary Fund wallet
// @Description Credit the wallet after an external payment
// @Tags wallet
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body FundRequest true "Funding data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/wallet/fund [post]
func (h *WalletHandler) Fund(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	balance, err := h.service.Fund(c.Request.Context(), userID, req.Amount, req.Reference)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Wallet funded successfully",
		"newBalance": balance,
	})
}
