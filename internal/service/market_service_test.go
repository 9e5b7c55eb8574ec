package service

import (
	"context"
	"testing"

	"github.com/salestrack/sales-api/internal/apierr"
	"github.com/salestrack/sales-api/internal/models"
	"github.com/salestrack/sales-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeMarketStore struct {
	markets    map[string]models.MarketView
	lastUpdate *repository.MarketUpdate
}

func newFakeMarketStore() *fakeMarketStore {
	return &fakeMarketStore{markets: map[string]models.MarketView{}}
}

func (f *fakeMarketStore) Create(market *models.Market) error {
	if _, ok := f.markets[market.MarketCode]; ok {
		return apierr.ResourceAlreadyExists()
	}
	f.markets[market.MarketCode] = models.MarketView{
		ID:              market.ID,
		MarketCode:      market.MarketCode,
		Name:            market.Name,
		CountryIsoCodes: market.CountryIsoCodes,
	}
	return nil
}

func (f *fakeMarketStore) GetByCode(_ context.Context, marketCode string) (*models.MarketView, error) {
	if view, ok := f.markets[marketCode]; ok {
		return &view, nil
	}
	return nil, nil
}

func (f *fakeMarketStore) List(_ context.Context) ([]models.MarketView, error) {
	views := []models.MarketView{}
	for _, view := range f.markets {
		views = append(views, view)
	}
	return views, nil
}

func (f *fakeMarketStore) Update(_ context.Context, marketCode string, update repository.MarketUpdate) (*models.MarketView, error) {
	f.lastUpdate = &update
	view, ok := f.markets[marketCode]
	if !ok {
		return nil, nil
	}
	if update.Name != nil {
		view.Name = *update.Name
	}
	if update.CountryIsoCodes != nil {
		view.CountryIsoCodes = update.CountryIsoCodes
	}
	f.markets[view.MarketCode] = view
	return &view, nil
}

func (f *fakeMarketStore) Delete(_ context.Context, marketCode string) (*models.MarketView, error) {
	view, ok := f.markets[marketCode]
	if !ok {
		return nil, nil
	}
	delete(f.markets, marketCode)
	return &view, nil
}

// ---- tests ----

func TestCreateMarketSanitizesCountryCodes(t *testing.T) {
	countries := NewCountryService(newFakeCountryStore("ESP", "USA"), nopPublisher{})
	store := newFakeMarketStore()
	svc := NewMarketService(store, countries, nopPublisher{})

	// Unknown CA is silently dropped, not rejected.
	view, err := svc.CreateMarket(context.Background(), CreateMarketInput{
		MarketCode:      "M-AM",
		Name:            "America",
		CountryIsoCodes: []string{"USA", "CA"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"USA"}, view.CountryIsoCodes)
}

func TestCreateMarketRejectsDuplicateCode(t *testing.T) {
	countries := NewCountryService(newFakeCountryStore(), nopPublisher{})
	store := newFakeMarketStore()
	svc := NewMarketService(store, countries, nopPublisher{})
	ctx := context.Background()

	_, err := svc.CreateMarket(ctx, CreateMarketInput{MarketCode: "M-EUR", Name: "Europe"})
	require.NoError(t, err)

	_, err = svc.CreateMarket(ctx, CreateMarketInput{MarketCode: "m-eur", Name: "Europe again"})
	require.Error(t, err)
	apiErr := apierr.As(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierr.CodeResourceAlreadyExists, apiErr.Code)
}

func TestCreateMarketEmptyCountrySetAllowed(t *testing.T) {
	countries := NewCountryService(newFakeCountryStore("ESP"), nopPublisher{})
	store := newFakeMarketStore()
	svc := NewMarketService(store, countries, nopPublisher{})

	view, err := svc.CreateMarket(context.Background(), CreateMarketInput{MarketCode: "M-X", Name: "Empty"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, view.CountryIsoCodes)
}

func TestUpdateMarketSanitizesOnlyProvidedCountrySet(t *testing.T) {
	countries := NewCountryService(newFakeCountryStore("ESP", "FR"), nopPublisher{})
	store := newFakeMarketStore()
	svc := NewMarketService(store, countries, nopPublisher{})
	ctx := context.Background()

	_, err := svc.CreateMarket(ctx, CreateMarketInput{
		MarketCode:      "M-EUR",
		Name:            "Europe",
		CountryIsoCodes: []string{"ESP", "FR"},
	})
	require.NoError(t, err)

	// Name-only update: the stored country set must be left untouched.
	newName := "Europe renamed"
	view, err := svc.UpdateMarket(ctx, "M-EUR", UpdateMarketInput{Name: &newName})
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Nil(t, store.lastUpdate.CountryIsoCodes)
	assert.Equal(t, []string{"ESP", "FR"}, view.CountryIsoCodes)

	// Set update: unknown and duplicate codes dropped.
	view, err = svc.UpdateMarket(ctx, "M-EUR", UpdateMarketInput{
		CountryIsoCodes: []string{"FR", "XXX", "FR"},
	})
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, []string{"FR"}, view.CountryIsoCodes)
}

func TestGetMarketByCodeMissReturnsNil(t *testing.T) {
	countries := NewCountryService(newFakeCountryStore(), nopPublisher{})
	svc := NewMarketService(newFakeMarketStore(), countries, nopPublisher{})

	view, err := svc.GetMarketByCode(context.Background(), "M-NONE")
	require.NoError(t, err)
	assert.Nil(t, view)
}
