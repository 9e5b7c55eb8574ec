package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/salestrack/sales-api/internal/apierr"
	"github.com/salestrack/sales-api/internal/models"
	appredis "github.com/salestrack/sales-api/internal/redis"
)

const marketViewKeyPrefix = "market:view:"

// MarketRepository owns market master data. The country-code set is stored as
// a text[] column; it is sanitized by the service layer before it gets here.
type MarketRepository struct {
	db    *sql.DB
	cache *appredis.ViewCache[models.MarketView]
}

func NewMarketRepository(db *sql.DB, redisClient *goredis.Client) *MarketRepository {
	return &MarketRepository{
		db:    db,
		cache: appredis.NewViewCache[models.MarketView](redisClient, marketViewKeyPrefix, 0),
	}
}

func (r *MarketRepository) Create(market *models.Market) error {
	query := `
		INSERT INTO markets (id, market_code, name, country_iso_codes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(query,
		market.ID, market.MarketCode, market.Name, pq.Array(market.CountryIsoCodes),
		market.CreatedAt, market.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apierr.ResourceAlreadyExists()
		}
		return fmt.Errorf("failed to create market: %w", err)
	}
	return nil
}

// GetByCode returns the market view, or nil when no non-deleted market
// carries the code.
func (r *MarketRepository) GetByCode(ctx context.Context, marketCode string) (*models.MarketView, error) {
	if view, ok := r.cache.Get(ctx, marketCode); ok {
		return view, nil
	}

	query := `
		SELECT id, market_code, name, country_iso_codes
		FROM markets
		WHERE market_code = $1 AND deleted_at IS NULL
	`
	var view models.MarketView
	err := r.db.QueryRowContext(ctx, query, marketCode).
		Scan(&view.ID, &view.MarketCode, &view.Name, pq.Array(&view.CountryIsoCodes))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get market: %w", err)
	}
	if view.CountryIsoCodes == nil {
		view.CountryIsoCodes = []string{}
	}

	r.cache.Set(ctx, marketCode, &view)
	return &view, nil
}

// List returns all non-deleted markets ordered by marketCode.
func (r *MarketRepository) List(ctx context.Context) ([]models.MarketView, error) {
	query := `
		SELECT id, market_code, name, country_iso_codes
		FROM markets
		WHERE deleted_at IS NULL
		ORDER BY market_code ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}
	defer rows.Close()

	views := []models.MarketView{}
	for rows.Next() {
		var view models.MarketView
		if err := rows.Scan(&view.ID, &view.MarketCode, &view.Name, pq.Array(&view.CountryIsoCodes)); err != nil {
			return nil, fmt.Errorf("failed to scan market: %w", err)
		}
		if view.CountryIsoCodes == nil {
			view.CountryIsoCodes = []string{}
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

// MarketUpdate carries the partial update; nil fields are left unchanged.
type MarketUpdate struct {
	MarketCode      *string
	Name            *string
	CountryIsoCodes []string
}

// Update applies the partial update and returns the updated view, or nil when
// the market does not exist. A nil CountryIsoCodes leaves the set untouched.
func (r *MarketRepository) Update(ctx context.Context, marketCode string, update MarketUpdate) (*models.MarketView, error) {
	query := `
		UPDATE markets
		SET market_code = COALESCE($2, market_code),
			name = COALESCE($3, name),
			country_iso_codes = COALESCE($4, country_iso_codes),
			updated_at = NOW()
		WHERE market_code = $1 AND deleted_at IS NULL
		RETURNING id, market_code, name, country_iso_codes
	`
	var codes any
	if update.CountryIsoCodes != nil {
		codes = pq.Array(update.CountryIsoCodes)
	}

	var view models.MarketView
	err := r.db.QueryRowContext(ctx, query, marketCode, nullStr(update.MarketCode), nullStr(update.Name), codes).
		Scan(&view.ID, &view.MarketCode, &view.Name, pq.Array(&view.CountryIsoCodes))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, apierr.ResourceAlreadyExists()
		}
		return nil, fmt.Errorf("failed to update market: %w", err)
	}
	if view.CountryIsoCodes == nil {
		view.CountryIsoCodes = []string{}
	}

	r.cache.Delete(ctx, marketCode)
	r.cache.Set(ctx, view.MarketCode, &view)
	return &view, nil
}

// Delete soft-deletes the market and returns the last view, or nil when it
// does not exist.
func (r *MarketRepository) Delete(ctx context.Context, marketCode string) (*models.MarketView, error) {
	query := `
		UPDATE markets
		SET deleted_at = NOW()
		WHERE market_code = $1 AND deleted_at IS NULL
		RETURNING id, market_code, name, country_iso_codes
	`
	var view models.MarketView
	err := r.db.QueryRowContext(ctx, query, marketCode).
		Scan(&view.ID, &view.MarketCode, &view.Name, pq.Array(&view.CountryIsoCodes))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete market: %w", err)
	}
	if view.CountryIsoCodes == nil {
		view.CountryIsoCodes = []string{}
	}

	r.cache.Delete(ctx, marketCode)
	return &view, nil
}
