package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/salestrack/sales-api/internal/apierr"
	"github.com/salestrack/sales-api/internal/middleware"
	"github.com/salestrack/sales-api/internal/models"
	"github.com/salestrack/sales-api/internal/response"
	"github.com/salestrack/sales-api/internal/service"
)

// TransactionServicer defines the transaction operations used by
// TransactionHandler.
type TransactionServicer interface {
	GetTransactionSummary(ctx context.Context, options service.SummaryFilterOptions) (*models.TransactionSummary, error)
	CreateTransaction(ctx context.Context, input service.CreateTransactionInput) (*models.TransactionView, error)
	GetAllTransactions(ctx context.Context) ([]models.TransactionView, error)
	GetTransactionByID(ctx context.Context, id string) (*models.TransactionView, error)
	UpdateTransaction(ctx context.Context, id string, input service.UpdateTransactionInput) (*models.TransactionView, error)
	DeleteTransaction(ctx context.Context, id string) (*models.TransactionView, error)
}

type TransactionHandler struct {
	transactions TransactionServicer
}

type SummaryFilterRequest struct {
	DateFrom       string `form:"dateFrom" validate:"omitempty,txdate"`
	DateTo         string `form:"dateTo" validate:"omitempty,txdate"`
	MarketCode     string `form:"marketCode"`
	CountryIsoCode string `form:"countryIsoCode"`
}

type CreateTransactionRequest struct {
	TransactionDate  string `json:"transactionDate" validate:"omitempty,txdate"`
	ProductReference string `json:"productReference" validate:"required"`
	CountryIsoCode   string `json:"countryIsoCode" validate:"required"`
	TransactionCode  *int   `json:"transactionCode" validate:"required,oneof=0 1"`
	Unit             *int   `json:"unit" validate:"required"`
}

type UpdateTransactionRequest struct {
	TransactionDate  *string `json:"transactionDate" validate:"omitempty,txdate"`
	ProductReference *string `json:"productReference"`
	CountryIsoCode   *string `json:"countryIsoCode"`
	TransactionCode  *int    `json:"transactionCode" validate:"omitempty,oneof=0 1"`
	Unit             *int    `json:"unit"`
}

func NewTransactionHandler(transactions TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

func (h *TransactionHandler) GetTransactionSummary(c *gin.Context) {
	var req SummaryFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationFailed(c, apierr.CodeValidationFailed, apierr.MessageValidationFailed)
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	summary, err := h.transactions.GetTransactionSummary(c.Request.Context(), service.SummaryFilterOptions{
		DateFrom:       req.DateFrom,
		DateTo:         req.DateTo,
		MarketCode:     req.MarketCode,
		CountryIsoCode: req.CountryIsoCode,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, summary)
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, apierr.CodeValidationFailed, apierr.MessageValidationFailed)
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.transactions.CreateTransaction(c.Request.Context(), service.CreateTransactionInput{
		TransactionDate:  req.TransactionDate,
		ProductReference: req.ProductReference,
		CountryIsoCode:   req.CountryIsoCode,
		TransactionCode:  *req.TransactionCode,
		Unit:             *req.Unit,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, view)
}

func (h *TransactionHandler) GetAllTransactions(c *gin.Context) {
	views, err := h.transactions.GetAllTransactions(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, views)
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	view, err := h.transactions.GetTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if view == nil {
		response.SuccessEmpty(c)
		return
	}

	response.Success(c, view)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, apierr.CodeValidationFailed, apierr.MessageValidationFailed)
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.transactions.UpdateTransaction(c.Request.Context(), c.Param("id"), service.UpdateTransactionInput{
		TransactionDate:  req.TransactionDate,
		ProductReference: req.ProductReference,
		CountryIsoCode:   req.CountryIsoCode,
		TransactionCode:  req.TransactionCode,
		Unit:             req.Unit,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	if view == nil {
		response.SuccessEmpty(c)
		return
	}

	response.Success(c, view)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	view, err := h.transactions.DeleteTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if view == nil {
		response.SuccessEmpty(c)
		return
	}

	response.Success(c, view)
}
