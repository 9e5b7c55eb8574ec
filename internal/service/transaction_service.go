package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/salestrack/sales-api/internal/events"
	"github.com/salestrack/sales-api/internal/models"
	"github.com/salestrack/sales-api/internal/repository"
	"github.com/salestrack/sales-api/internal/utils"
)

// TransactionStore defines the persistence operations TransactionService
// relies on.
type TransactionStore interface {
	Create(transaction *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.TransactionView, error)
	List(ctx context.Context) ([]models.TransactionView, error)
	Summary(ctx context.Context, filter repository.SummaryFilter) (*models.TransactionSummary, error)
	Update(ctx context.Context, id string, update repository.TransactionUpdate) (*models.TransactionView, error)
	Delete(ctx context.Context, id string) (*models.TransactionView, error)
	IncrCountryCount(ctx context.Context, isoCode string)
	DecrCountryCount(ctx context.Context, isoCode string)
}

// CountryValidator is the registry-side country check used by transactions.
type CountryValidator interface {
	ValidateCountryIsoCode(ctx context.Context, isoCode string, throwIfInvalid bool) (string, error)
}

// MarketLookup resolves a market code to its view, or nil when unknown.
type MarketLookup interface {
	GetMarketByCode(ctx context.Context, marketCode string) (*models.MarketView, error)
}

// TransactionService records sales/returns and computes the filtered summary.
// Country codes on transactions are hard-validated against the registry,
// unlike market country sets which are silently sanitized.
type TransactionService struct {
	store     TransactionStore
	countries CountryValidator
	markets   MarketLookup
	publisher EventPublisher
}

func NewTransactionService(
	store TransactionStore,
	countries CountryValidator,
	markets MarketLookup,
	publisher EventPublisher,
) *TransactionService {
	return &TransactionService{
		store:     store,
		countries: countries,
		markets:   markets,
		publisher: publisher,
	}
}

// SummaryFilterOptions are the raw request filters, all optional.
type SummaryFilterOptions struct {
	DateFrom       string
	DateTo         string
	MarketCode     string
	CountryIsoCode string
}

// GetTransactionSummary lists the transactions matching the filter and sums
// their units into sales and returns totals.
//
// The date range is inclusive and compared lexically on the stored strings;
// a missing dateTo defaults to today in the same format, a missing dateFrom
// means no lower bound. A known market narrows the predicate to its country
// set; a known country code then overrides that narrowing with an exact
// match. Unknown market or country codes are silently dropped from the
// filter instead of failing the request.
func (s *TransactionService) GetTransactionSummary(ctx context.Context, options SummaryFilterOptions) (*models.TransactionSummary, error) {
	dateTo := options.DateTo
	if dateTo == "" {
		dateTo = utils.Today()
	}

	var countryIsoCodes []string

	if options.MarketCode != "" {
		market, err := s.markets.GetMarketByCode(ctx, options.MarketCode)
		if err != nil {
			return nil, err
		}
		if market != nil {
			countryIsoCodes = market.CountryIsoCodes
			if countryIsoCodes == nil {
				countryIsoCodes = []string{}
			}
		}
	}

	if options.CountryIsoCode != "" {
		valid, err := s.countries.ValidateCountryIsoCode(ctx, options.CountryIsoCode, false)
		if err != nil {
			return nil, err
		}
		if valid != "" {
			countryIsoCodes = []string{valid}
		}
	}

	return s.store.Summary(ctx, repository.SummaryFilter{
		DateFrom:        options.DateFrom,
		DateTo:          dateTo,
		CountryIsoCodes: countryIsoCodes,
	})
}

type CreateTransactionInput struct {
	TransactionDate  string
	ProductReference string
	CountryIsoCode   string
	TransactionCode  int
	Unit             int
}

// CreateTransaction rejects unknown country codes with a VALIDATION error.
// A missing transactionDate defaults to today.
func (s *TransactionService) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*models.TransactionView, error) {
	if _, err := s.countries.ValidateCountryIsoCode(ctx, input.CountryIsoCode, true); err != nil {
		return nil, err
	}

	transactionDate := input.TransactionDate
	if transactionDate == "" {
		transactionDate = utils.Today()
	}

	now := time.Now().UTC()
	transaction := &models.Transaction{
		ID:               utils.GenerateID("txn"),
		TransactionDate:  transactionDate,
		ProductReference: input.ProductReference,
		CountryIsoCode:   input.CountryIsoCode,
		TransactionCode:  input.TransactionCode,
		Unit:             input.Unit,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.Create(transaction); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID:   transaction.ID,
		TransactionDate: transaction.TransactionDate,
		CountryIsoCode:  transaction.CountryIsoCode,
		TransactionCode: transaction.TransactionCode,
		Unit:            transaction.Unit,
	}); err != nil {
		log.Printf("Failed to publish transaction.created event: %v", err)
	}

	return &models.TransactionView{
		ID:               transaction.ID,
		TransactionDate:  transaction.TransactionDate,
		ProductReference: transaction.ProductReference,
		CountryIsoCode:   transaction.CountryIsoCode,
		TransactionCode:  transaction.TransactionCode,
		Unit:             transaction.Unit,
	}, nil
}

func (s *TransactionService) GetAllTransactions(ctx context.Context) ([]models.TransactionView, error) {
	return s.store.List(ctx)
}

// GetTransactionByID returns (nil, nil) when the transaction does not exist.
func (s *TransactionService) GetTransactionByID(ctx context.Context, id string) (*models.TransactionView, error) {
	return s.store.GetByID(ctx, id)
}

type UpdateTransactionInput struct {
	TransactionDate  *string
	ProductReference *string
	CountryIsoCode   *string
	TransactionCode  *int
	Unit             *int
}

// UpdateTransaction re-validates the country code (hard) when the update
// carries one.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id string, input UpdateTransactionInput) (*models.TransactionView, error) {
	if input.CountryIsoCode != nil {
		if _, err := s.countries.ValidateCountryIsoCode(ctx, *input.CountryIsoCode, true); err != nil {
			return nil, err
		}
	}

	return s.store.Update(ctx, id, repository.TransactionUpdate{
		TransactionDate:  input.TransactionDate,
		ProductReference: input.ProductReference,
		CountryIsoCode:   input.CountryIsoCode,
		TransactionCode:  input.TransactionCode,
		Unit:             input.Unit,
	})
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) (*models.TransactionView, error) {
	view, err := s.store.Delete(ctx, id)
	if err != nil || view == nil {
		return view, err
	}

	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionDeleted, events.TransactionDeletedEvent{
		TransactionID:  view.ID,
		CountryIsoCode: view.CountryIsoCode,
	}); err != nil {
		log.Printf("Failed to publish transaction.deleted event: %v", err)
	}
	return view, nil
}

// HandleTransactionEvent is the stream subscriber handler. It keeps the
// per-country transaction counters in Redis current.
func (s *TransactionService) HandleTransactionEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.TransactionCreated:
		dataBytes, _ := json.Marshal(event.Data)
		var data events.TransactionCreatedEvent
		if err := json.Unmarshal(dataBytes, &data); err != nil {
			return fmt.Errorf("failed to unmarshal transaction.created event: %w", err)
		}
		s.store.IncrCountryCount(ctx, data.CountryIsoCode)
	case events.TransactionDeleted:
		dataBytes, _ := json.Marshal(event.Data)
		var data events.TransactionDeletedEvent
		if err := json.Unmarshal(dataBytes, &data); err != nil {
			return fmt.Errorf("failed to unmarshal transaction.deleted event: %w", err)
		}
		s.store.DecrCountryCount(ctx, data.CountryIsoCode)
	}
	return nil
}
