package service

import (
	"context"
	"log"
	"time"

	"github.com/salestrack/sales-api/internal/apierr"
	"github.com/salestrack/sales-api/internal/events"
	"github.com/salestrack/sales-api/internal/models"
	"github.com/salestrack/sales-api/internal/repository"
	"github.com/salestrack/sales-api/internal/utils"
)

// CountryStore defines the persistence operations CountryService relies on.
type CountryStore interface {
	Create(country *models.Country) error
	GetByIsoCode(ctx context.Context, isoCode string) (*models.CountryView, error)
	List(ctx context.Context) ([]models.CountryView, error)
	Update(ctx context.Context, isoCode string, update repository.CountryUpdate) (*models.CountryView, error)
	Delete(ctx context.Context, isoCode string) (*models.CountryView, error)
}

// EventPublisher publishes entity lifecycle events to a stream.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// CountryService owns country master data and is the authority for country
// code validation used by markets and transactions.
type CountryService struct {
	store     CountryStore
	publisher EventPublisher
}

func NewCountryService(store CountryStore, publisher EventPublisher) *CountryService {
	return &CountryService{store: store, publisher: publisher}
}

type CreateCountryInput struct {
	IsoCode string
	Name    string
}

// CreateCountry rejects duplicate codes with ALREADY_EXISTS. The pre-check is
// racy across concurrent requests; the store's unique index backs it and maps
// to the same error.
func (s *CountryService) CreateCountry(ctx context.Context, input CreateCountryInput) (*models.CountryView, error) {
	isoCode := utils.NormalizeCode(input.IsoCode)

	existing, err := s.store.GetByIsoCode(ctx, isoCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierr.ResourceAlreadyExists()
	}

	now := time.Now().UTC()
	country := &models.Country{
		ID:        utils.GenerateID("cty"),
		IsoCode:   isoCode,
		Name:      input.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(country); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.RegistryEventsStream, events.CountryCreated, events.CountryEvent{
		IsoCode: country.IsoCode,
		Name:    country.Name,
	}); err != nil {
		log.Printf("Failed to publish country.created event: %v", err)
	}

	return &models.CountryView{ID: country.ID, IsoCode: country.IsoCode, Name: country.Name}, nil
}

func (s *CountryService) GetAllCountries(ctx context.Context) ([]models.CountryView, error) {
	return s.store.List(ctx)
}

// GetCountryByIsoCode returns (nil, nil) when the country does not exist;
// missing resources are not errors.
func (s *CountryService) GetCountryByIsoCode(ctx context.Context, isoCode string) (*models.CountryView, error) {
	return s.store.GetByIsoCode(ctx, utils.NormalizeCode(isoCode))
}

type UpdateCountryInput struct {
	IsoCode *string
	Name    *string
}

func (s *CountryService) UpdateCountry(ctx context.Context, isoCode string, input UpdateCountryInput) (*models.CountryView, error) {
	update := repository.CountryUpdate{Name: input.Name}
	if input.IsoCode != nil {
		normalized := utils.NormalizeCode(*input.IsoCode)
		update.IsoCode = &normalized
	}

	view, err := s.store.Update(ctx, utils.NormalizeCode(isoCode), update)
	if err != nil || view == nil {
		return view, err
	}

	if err := s.publisher.Publish(ctx, events.RegistryEventsStream, events.CountryUpdated, events.CountryEvent{
		IsoCode: view.IsoCode,
		Name:    view.Name,
	}); err != nil {
		log.Printf("Failed to publish country.updated event: %v", err)
	}
	return view, nil
}

func (s *CountryService) DeleteCountry(ctx context.Context, isoCode string) (*models.CountryView, error) {
	view, err := s.store.Delete(ctx, utils.NormalizeCode(isoCode))
	if err != nil || view == nil {
		return view, err
	}

	if err := s.publisher.Publish(ctx, events.RegistryEventsStream, events.CountryDeleted, events.CountryEvent{
		IsoCode: view.IsoCode,
		Name:    view.Name,
	}); err != nil {
		log.Printf("Failed to publish country.deleted event: %v", err)
	}
	return view, nil
}

// ValidateCountryIsoCode returns the code unchanged when it exists. When it
// does not, the result depends on throwIfInvalid: a VALIDATION error for hard
// callers (transactions), an empty string for soft callers (markets, summary
// filters), who treat the absence as "skip". Matching is deliberately
// case-exact, unlike the normalized lookups of the CRUD operations: callers
// supply codes as stored, and a lowercase code simply does not validate.
func (s *CountryService) ValidateCountryIsoCode(ctx context.Context, isoCode string, throwIfInvalid bool) (string, error) {
	existing, err := s.store.GetByIsoCode(ctx, isoCode)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return isoCode, nil
	}
	if throwIfInvalid {
		return "", apierr.ValidationFailed("countryIsoCode")
	}
	return "", nil
}

// ValidateCountryIsoCodes sanitizes a country-code set: unknown codes are
// dropped, duplicates removed preserving first-seen order. Empty input yields
// an empty set without any lookups.
func (s *CountryService) ValidateCountryIsoCodes(ctx context.Context, isoCodes []string) ([]string, error) {
	validIsoCodes := []string{}
	if len(isoCodes) == 0 {
		return validIsoCodes, nil
	}

	seen := make(map[string]bool, len(isoCodes))
	for _, isoCode := range isoCodes {
		valid, err := s.ValidateCountryIsoCode(ctx, isoCode, false)
		if err != nil {
			return nil, err
		}
		if valid == "" || seen[valid] {
			continue
		}
		seen[valid] = true
		validIsoCodes = append(validIsoCodes, valid)
	}
	return validIsoCodes, nil
}
