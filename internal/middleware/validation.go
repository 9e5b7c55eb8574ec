package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/salestrack/sales-api/internal/apierr"
	"github.com/salestrack/sales-api/internal/response"
)

// Transaction dates accept dd/mm/yyyy or dd-mm-yyyy.
var transactionDatePattern = regexp.MustCompile(`^(0?[1-9]|[12]\d|3[01])[\/\-](0?[1-9]|1[012])[\/\-]\d{4}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("txdate", func(fl validator.FieldLevel) bool {
		return transactionDatePattern.MatchString(fl.Field().String())
	})
	return v
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func ValidateRequest(obj any) []ValidationError {
	var validationErrors []ValidationError

	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	for _, err := range err.(validator.ValidationErrors) {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: getErrorMsg(err),
			Type:    err.Tag(),
		})
	}

	return validationErrors
}

func getErrorMsg(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "oneof":
		return "Value must be one of: " + err.Param()
	case "txdate":
		return "Date must match dd/mm/yyyy"
	default:
		return "Invalid value"
	}
}

// RespondWithValidationError reports the first violated field, mirroring the
// one-detail-at-a-time contract of the API.
func RespondWithValidationError(c *gin.Context, validationErrors []ValidationError) {
	message := apierr.MessageValidationFailed
	if len(validationErrors) > 0 {
		message = "\"" + validationErrors[0].Field + "\" " + validationErrors[0].Message
	}
	response.ValidationFailed(c, apierr.CodeValidationFailed, message)
}
