package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/salestrack/sales-api/internal/apierr"
	"github.com/salestrack/sales-api/internal/models"
	"github.com/salestrack/sales-api/internal/service"
)

// ---- mock implementations ----

type mockCountryServicer struct {
	createFn func(service.CreateCountryInput) (*models.CountryView, error)
	listFn   func() ([]models.CountryView, error)
	getFn    func(string) (*models.CountryView, error)
	updateFn func(string, service.UpdateCountryInput) (*models.CountryView, error)
	deleteFn func(string) (*models.CountryView, error)
}

func (m *mockCountryServicer) CreateCountry(_ context.Context, input service.CreateCountryInput) (*models.CountryView, error) {
	if m.createFn != nil {
		return m.createFn(input)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockCountryServicer) GetAllCountries(_ context.Context) ([]models.CountryView, error) {
	if m.listFn != nil {
		return m.listFn()
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockCountryServicer) GetCountryByIsoCode(_ context.Context, isoCode string) (*models.CountryView, error) {
	if m.getFn != nil {
		return m.getFn(isoCode)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockCountryServicer) UpdateCountry(_ context.Context, isoCode string, input service.UpdateCountryInput) (*models.CountryView, error) {
	if m.updateFn != nil {
		return m.updateFn(isoCode, input)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockCountryServicer) DeleteCountry(_ context.Context, isoCode string) (*models.CountryView, error) {
	if m.deleteFn != nil {
		return m.deleteFn(isoCode)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newCountryTestRouter(svc CountryServicer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCountryHandler(svc)
	countries := r.Group("/countries")
	countries.POST("", h.CreateCountry)
	countries.GET("", h.GetAllCountries)
	countries.GET("/:isoCode", h.GetCountry)
	countries.PUT("/:isoCode", h.UpdateCountry)
	countries.DELETE("/:isoCode", h.DeleteCountry)
	return r
}

func doRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var testCountryView = &models.CountryView{ID: "cty-001", IsoCode: "ESP", Name: "Spain"}

// ---- tests ----

func TestCreateCountry(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		createFn       func(service.CreateCountryInput) (*models.CountryView, error)
		expectedStatus int
	}{
		{
			name: "success - creates country",
			body: map[string]interface{}{"isoCode": "ESP", "name": "Spain"},
			createFn: func(input service.CreateCountryInput) (*models.CountryView, error) {
				return testCountryView, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "validation - missing name",
			body:           map[string]interface{}{"isoCode": "ESP"},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "bad request - duplicate code",
			body: map[string]interface{}{"isoCode": "ESP", "name": "Spain"},
			createFn: func(input service.CreateCountryInput) (*models.CountryView, error) {
				return nil, apierr.ResourceAlreadyExists()
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newCountryTestRouter(&mockCountryServicer{createFn: tt.createFn})
			w := doRequest(router, http.MethodPost, "/countries", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateCountryDuplicateReportsInternalCode(t *testing.T) {
	router := newCountryTestRouter(&mockCountryServicer{
		createFn: func(service.CreateCountryInput) (*models.CountryView, error) {
			return nil, apierr.ResourceAlreadyExists()
		},
	})
	w := doRequest(router, http.MethodPost, "/countries", map[string]interface{}{"isoCode": "ESP", "name": "Spain"})

	var envelope struct {
		Success bool   `json:"success"`
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Success {
		t.Error("expected success=false")
	}
	if envelope.Code != apierr.CodeResourceAlreadyExists {
		t.Errorf("expected internal code %d, got %d", apierr.CodeResourceAlreadyExists, envelope.Code)
	}
	if envelope.Message != apierr.MessageResourceAlreadyExists {
		t.Errorf("unexpected message: %s", envelope.Message)
	}
}

func TestGetCountry(t *testing.T) {
	tests := []struct {
		name           string
		getFn          func(string) (*models.CountryView, error)
		expectedStatus int
	}{
		{
			name: "success - country found",
			getFn: func(string) (*models.CountryView, error) {
				return testCountryView, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "empty success - country missing",
			getFn: func(string) (*models.CountryView, error) {
				return nil, nil
			},
			expectedStatus: http.StatusAccepted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newCountryTestRouter(&mockCountryServicer{getFn: tt.getFn})
			w := doRequest(router, http.MethodGet, "/countries/ESP", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestDeleteCountryMissingIsEmptySuccess(t *testing.T) {
	router := newCountryTestRouter(&mockCountryServicer{
		deleteFn: func(string) (*models.CountryView, error) { return nil, nil },
	})
	w := doRequest(router, http.MethodDelete, "/countries/XXX", nil)
	if w.Code != http.StatusAccepted {
		t.Errorf("expected status %d, got %d", http.StatusAccepted, w.Code)
	}
}
