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

const countryViewKeyPrefix = "country:view:"

// CountryRepository owns country master data in PostgreSQL, with a Redis view
// cache in front of the by-code lookup (the registry existence-check hot path).
type CountryRepository struct {
	db    *sql.DB
	cache *appredis.ViewCache[models.CountryView]
}

func NewCountryRepository(db *sql.DB, redisClient *goredis.Client) *CountryRepository {
	return &CountryRepository{
		db:    db,
		cache: appredis.NewViewCache[models.CountryView](redisClient, countryViewKeyPrefix, 0),
	}
}

func (r *CountryRepository) Create(country *models.Country) error {
	query := `
		INSERT INTO countries (id, iso_code, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(query,
		country.ID, country.IsoCode, country.Name,
		country.CreatedAt, country.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apierr.ResourceAlreadyExists()
		}
		return fmt.Errorf("failed to create country: %w", err)
	}
	return nil
}

// GetByIsoCode returns the country view, or nil when no non-deleted country
// carries the code. Redis is consulted first, PostgreSQL on a miss.
func (r *CountryRepository) GetByIsoCode(ctx context.Context, isoCode string) (*models.CountryView, error) {
	if view, ok := r.cache.Get(ctx, isoCode); ok {
		return view, nil
	}

	query := `
		SELECT id, iso_code, name
		FROM countries
		WHERE iso_code = $1 AND deleted_at IS NULL
	`
	var view models.CountryView
	err := r.db.QueryRowContext(ctx, query, isoCode).Scan(&view.ID, &view.IsoCode, &view.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get country: %w", err)
	}

	r.cache.Set(ctx, isoCode, &view)
	return &view, nil
}

// List returns all non-deleted countries ordered by isoCode.
func (r *CountryRepository) List(ctx context.Context) ([]models.CountryView, error) {
	query := `
		SELECT id, iso_code, name
		FROM countries
		WHERE deleted_at IS NULL
		ORDER BY iso_code ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	defer rows.Close()

	views := []models.CountryView{}
	for rows.Next() {
		var view models.CountryView
		if err := rows.Scan(&view.ID, &view.IsoCode, &view.Name); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

// CountryUpdate carries the partial update; nil fields are left unchanged.
type CountryUpdate struct {
	IsoCode *string
	Name    *string
}

// Update applies the partial update and returns the updated view, or nil when
// the country does not exist.
func (r *CountryRepository) Update(ctx context.Context, isoCode string, update CountryUpdate) (*models.CountryView, error) {
	query := `
		UPDATE countries
		SET iso_code = COALESCE($2, iso_code),
			name = COALESCE($3, name),
			updated_at = NOW()
		WHERE iso_code = $1 AND deleted_at IS NULL
		RETURNING id, iso_code, name
	`
	var view models.CountryView
	err := r.db.QueryRowContext(ctx, query, isoCode, nullStr(update.IsoCode), nullStr(update.Name)).
		Scan(&view.ID, &view.IsoCode, &view.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, apierr.ResourceAlreadyExists()
		}
		return nil, fmt.Errorf("failed to update country: %w", err)
	}

	// The code may have changed; drop the old entry and refresh the new one.
	r.cache.Delete(ctx, isoCode)
	r.cache.Set(ctx, view.IsoCode, &view)
	return &view, nil
}

// Delete soft-deletes the country and returns the last view, or nil when it
// does not exist.
func (r *CountryRepository) Delete(ctx context.Context, isoCode string) (*models.CountryView, error) {
	query := `
		UPDATE countries
		SET deleted_at = NOW()
		WHERE iso_code = $1 AND deleted_at IS NULL
		RETURNING id, iso_code, name
	`
	var view models.CountryView
	err := r.db.QueryRowContext(ctx, query, isoCode).Scan(&view.ID, &view.IsoCode, &view.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete country: %w", err)
	}

	r.cache.Delete(ctx, isoCode)
	return &view, nil
}

func nullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}
