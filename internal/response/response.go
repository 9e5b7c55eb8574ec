// Package response implements the API response envelope. Every payload is
// wrapped as {success, data, message}; a missing resource is an "empty
// success" (HTTP 202 with null data), not an error.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salestrack/sales-api/internal/apierr"
)

const successMessage = "Request successful"

type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Message: successMessage,
	})
}

// SuccessEmpty responds with 202 to distinguish "success with no payload"
// from "success with data".
func SuccessEmpty(c *gin.Context) {
	c.JSON(http.StatusAccepted, Envelope{
		Success: true,
		Message: successMessage,
	})
}

func BadRequest(c *gin.Context, code int, message string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Code:    code,
		Message: message,
	})
}

func ValidationFailed(c *gin.Context, code int, message string) {
	c.JSON(http.StatusUnprocessableEntity, Envelope{
		Success: false,
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, code int, message string) {
	c.JSON(http.StatusUnauthorized, Envelope{
		Success: false,
		Code:    code,
		Message: message,
	})
}

func ServerError(c *gin.Context, code int, message string) {
	c.JSON(http.StatusInternalServerError, Envelope{
		Success: false,
		Code:    code,
		Message: message,
	})
}

// FromError maps a service error to the envelope. Validation failures keep
// their 422 status and credential failures their 401; everything else is a
// bad request with either the error's internal code or the generic
// process-not-finished code, so internal detail never leaks.
func FromError(c *gin.Context, err error) {
	if apiErr := apierr.As(err); apiErr != nil {
		switch apiErr.Code {
		case apierr.CodeValidationFailed:
			ValidationFailed(c, apiErr.Code, apiErr.Message)
		case apierr.CodeUnauthorized:
			Unauthorized(c, apiErr.Code, apiErr.Message)
		default:
			BadRequest(c, apiErr.Code, apiErr.Message)
		}
		return
	}
	BadRequest(c, apierr.CodeProcessNotFinished, apierr.MessageProcessNotFinished)
}
