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

// MarketStore defines the persistence operations MarketService relies on.
type MarketStore interface {
	Create(market *models.Market) error
	GetByCode(ctx context.Context, marketCode string) (*models.MarketView, error)
	List(ctx context.Context) ([]models.MarketView, error)
	Update(ctx context.Context, marketCode string, update repository.MarketUpdate) (*models.MarketView, error)
	Delete(ctx context.Context, marketCode string) (*models.MarketView, error)
}

// CountryCodeSanitizer sanitizes a set of country codes against the registry.
type CountryCodeSanitizer interface {
	ValidateCountryIsoCodes(ctx context.Context, isoCodes []string) ([]string, error)
}

// MarketService owns market master data. A market's country-code set is
// sanitized before every write: unknown or duplicate codes are silently
// dropped, never rejected.
type MarketService struct {
	store     MarketStore
	countries CountryCodeSanitizer
	publisher EventPublisher
}

func NewMarketService(store MarketStore, countries CountryCodeSanitizer, publisher EventPublisher) *MarketService {
	return &MarketService{store: store, countries: countries, publisher: publisher}
}

type CreateMarketInput struct {
	MarketCode      string
	Name            string
	CountryIsoCodes []string
}

func (s *MarketService) CreateMarket(ctx context.Context, input CreateMarketInput) (*models.MarketView, error) {
	marketCode := utils.NormalizeCode(input.MarketCode)

	existing, err := s.store.GetByCode(ctx, marketCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierr.ResourceAlreadyExists()
	}

	countryIsoCodes, err := s.countries.ValidateCountryIsoCodes(ctx, input.CountryIsoCodes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	market := &models.Market{
		ID:              utils.GenerateID("mkt"),
		MarketCode:      marketCode,
		Name:            input.Name,
		CountryIsoCodes: countryIsoCodes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Create(market); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.RegistryEventsStream, events.MarketCreated, events.MarketEvent{
		MarketCode:      market.MarketCode,
		Name:            market.Name,
		CountryIsoCodes: market.CountryIsoCodes,
	}); err != nil {
		log.Printf("Failed to publish market.created event: %v", err)
	}

	return &models.MarketView{
		ID:              market.ID,
		MarketCode:      market.MarketCode,
		Name:            market.Name,
		CountryIsoCodes: market.CountryIsoCodes,
	}, nil
}

func (s *MarketService) GetAllMarkets(ctx context.Context) ([]models.MarketView, error) {
	return s.store.List(ctx)
}

// GetMarketByCode returns (nil, nil) when the market does not exist.
func (s *MarketService) GetMarketByCode(ctx context.Context, marketCode string) (*models.MarketView, error) {
	return s.store.GetByCode(ctx, utils.NormalizeCode(marketCode))
}

type UpdateMarketInput struct {
	MarketCode      *string
	Name            *string
	CountryIsoCodes []string
}

// UpdateMarket applies a partial update. The country-code set is sanitized
// only when it is part of the update; nil leaves the stored set untouched.
func (s *MarketService) UpdateMarket(ctx context.Context, marketCode string, input UpdateMarketInput) (*models.MarketView, error) {
	update := repository.MarketUpdate{Name: input.Name}
	if input.MarketCode != nil {
		normalized := utils.NormalizeCode(*input.MarketCode)
		update.MarketCode = &normalized
	}
	if input.CountryIsoCodes != nil {
		sanitized, err := s.countries.ValidateCountryIsoCodes(ctx, input.CountryIsoCodes)
		if err != nil {
			return nil, err
		}
		update.CountryIsoCodes = sanitized
	}

	view, err := s.store.Update(ctx, utils.NormalizeCode(marketCode), update)
	if err != nil || view == nil {
		return view, err
	}

	if err := s.publisher.Publish(ctx, events.RegistryEventsStream, events.MarketUpdated, events.MarketEvent{
		MarketCode:      view.MarketCode,
		Name:            view.Name,
		CountryIsoCodes: view.CountryIsoCodes,
	}); err != nil {
		log.Printf("Failed to publish market.updated event: %v", err)
	}
	return view, nil
}

func (s *MarketService) DeleteMarket(ctx context.Context, marketCode string) (*models.MarketView, error) {
	view, err := s.store.Delete(ctx, utils.NormalizeCode(marketCode))
	if err != nil || view == nil {
		return view, err
	}

	if err := s.publisher.Publish(ctx, events.RegistryEventsStream, events.MarketDeleted, events.MarketEvent{
		MarketCode:      view.MarketCode,
		Name:            view.Name,
		CountryIsoCodes: view.CountryIsoCodes,
	}); err != nil {
		log.Printf("Failed to publish market.deleted event: %v", err)
	}
	return view, nil
}
