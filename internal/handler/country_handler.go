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

// CountryServicer defines the country operations used by CountryHandler.
type CountryServicer interface {
	CreateCountry(ctx context.Context, input service.CreateCountryInput) (*models.CountryView, error)
	GetAllCountries(ctx context.Context) ([]models.CountryView, error)
	GetCountryByIsoCode(ctx context.Context, isoCode string) (*models.CountryView, error)
	UpdateCountry(ctx context.Context, isoCode string, input service.UpdateCountryInput) (*models.CountryView, error)
	DeleteCountry(ctx context.Context, isoCode string) (*models.CountryView, error)
}

type CountryHandler struct {
	countries CountryServicer
}

type CreateCountryRequest struct {
	IsoCode string `json:"isoCode" validate:"required"`
	Name    string `json:"name" validate:"required"`
}

type UpdateCountryRequest struct {
	IsoCode *string `json:"isoCode"`
	Name    *string `json:"name"`
}

func NewCountryHandler(countries CountryServicer) *CountryHandler {
	return &CountryHandler{countries: countries}
}

func (h *CountryHandler) CreateCountry(c *gin.Context) {
	var req CreateCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, apierr.CodeValidationFailed, apierr.MessageValidationFailed)
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.countries.CreateCountry(c.Request.Context(), service.CreateCountryInput{
		IsoCode: req.IsoCode,
		Name:    req.Name,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, view)
}

func (h *CountryHandler) GetAllCountries(c *gin.Context) {
	views, err := h.countries.GetAllCountries(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, views)
}

func (h *CountryHandler) GetCountry(c *gin.Context) {
	view, err := h.countries.GetCountryByIsoCode(c.Request.Context(), c.Param("isoCode"))
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

func (h *CountryHandler) UpdateCountry(c *gin.Context) {
	var req UpdateCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, apierr.CodeValidationFailed, apierr.MessageValidationFailed)
		return
	}

	view, err := h.countries.UpdateCountry(c.Request.Context(), c.Param("isoCode"), service.UpdateCountryInput{
		IsoCode: req.IsoCode,
		Name:    req.Name,
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

func (h *CountryHandler) DeleteCountry(c *gin.Context) {
	view, err := h.countries.DeleteCountry(c.Request.Context(), c.Param("isoCode"))
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
