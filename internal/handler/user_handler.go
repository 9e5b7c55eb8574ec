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

// UserServicer defines the user operations used by UserHandler.
type UserServicer interface {
	Register(ctx context.Context, credentials service.Credentials) (*models.UserView, error)
	Login(ctx context.Context, credentials service.Credentials) (*models.LoginView, error)
}

type UserHandler struct {
	users UserServicer
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func NewUserHandler(users UserServicer) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, apierr.CodeValidationFailed, apierr.MessageValidationFailed)
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.users.Register(c.Request.Context(), service.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, view)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, apierr.CodeValidationFailed, apierr.MessageValidationFailed)
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.users.Login(c.Request.Context(), service.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, view)
}
