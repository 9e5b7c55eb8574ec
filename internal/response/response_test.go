package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/salestrack/sales-api/internal/apierr"
)

func fromErrorStatus(err error) int {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	FromError(c, err)
	return w.Code
}

func TestFromErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"validation failure keeps 422", apierr.ValidationFailed("countryIsoCode"), http.StatusUnprocessableEntity},
		{"credential failure keeps 401", apierr.Unauthorized(), http.StatusUnauthorized},
		{"duplicate key is a bad request", apierr.ResourceAlreadyExists(), http.StatusBadRequest},
		{"unknown error degrades to bad request", errors.New("connection reset"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fromErrorStatus(tt.err); got != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, got)
			}
		})
	}
}
