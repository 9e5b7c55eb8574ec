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

// MarketServicer defines the market operations used by MarketHandler.
type MarketServicer interface {
	CreateMarket(ctx context.Context, input service.CreateMarketInput) (*models.MarketView, error)
	GetAllMarkets(ctx context.Context) ([]models.MarketView, error)
	GetMarketByCode(ctx context.Context, marketCode string) (*models.MarketView, error)
	UpdateMarket(ctx context.Context, marketCode string, input service.UpdateMarketInput) (*models.MarketView, error)
	DeleteMarket(ctx context.Context, marketCode string) (*models.MarketView, error)
}

type MarketHandler struct {
	markets MarketServicer
}

type CreateMarketRequest struct {
	MarketCode      string   `json:"marketCode" validate:"required"`
	Name            string   `json:"name" validate:"required"`
	CountryIsoCodes []string `json:"countryIsoCodes"`
}

type UpdateMarketRequest struct {
	MarketCode      *string  `json:"marketCode"`
	Name            *string  `json:"name"`
	CountryIsoCodes []string `json:"countryIsoCodes"`
}

func NewMarketHandler(markets MarketServicer) *MarketHandler {
	return &MarketHandler{markets: markets}
}

func (h *MarketHandler) CreateMarket(c *gin.Context) {
	var req CreateMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, apierr.CodeValidationFailed, apierr.MessageValidationFailed)
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.markets.CreateMarket(c.Request.Context(), service.CreateMarketInput{
		MarketCode:      req.MarketCode,
		Name:            req.Name,
		CountryIsoCodes: req.CountryIsoCodes,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, view)
}

func (h *MarketHandler) GetAllMarkets(c *gin.Context) {
	views, err := h.markets.GetAllMarkets(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, views)
}

func (h *MarketHandler) GetMarket(c *gin.Context) {
	view, err := h.markets.GetMarketByCode(c.Request.Context(), c.Param("marketCode"))
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

func (h *MarketHandler) UpdateMarket(c *gin.Context) {
	var req UpdateMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, apierr.CodeValidationFailed, apierr.MessageValidationFailed)
		return
	}

	view, err := h.markets.UpdateMarket(c.Request.Context(), c.Param("marketCode"), service.UpdateMarketInput{
		MarketCode:      req.MarketCode,
		Name:            req.Name,
		CountryIsoCodes: req.CountryIsoCodes,
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

func (h *MarketHandler) DeleteMarket(c *gin.Context) {
	view, err := h.markets.DeleteMarket(c.Request.Context(), c.Param("marketCode"))
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
