package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/salestrack/sales-api/internal/models"
)

const transactionStatsKeyPrefix = "stats:transactions:"

// TransactionRepository stores sales/returns transactions. Dates are TEXT in
// dd/mm/yyyy form and range filters compare them as stored, lexically.
type TransactionRepository struct {
	db    *sql.DB
	redis *goredis.Client
}

func NewTransactionRepository(db *sql.DB, redisClient *goredis.Client) *TransactionRepository {
	return &TransactionRepository{db: db, redis: redisClient}
}

func (r *TransactionRepository) Create(transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, transaction_date, product_reference, country_iso_code,
			transaction_code, unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(query,
		transaction.ID, transaction.TransactionDate, transaction.ProductReference,
		transaction.CountryIsoCode, transaction.TransactionCode, transaction.Unit,
		transaction.CreatedAt, transaction.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID returns the transaction view, or nil when it does not exist.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*models.TransactionView, error) {
	query := `
		SELECT id, transaction_date, product_reference, country_iso_code, transaction_code, unit
		FROM transactions
		WHERE id = $1 AND deleted_at IS NULL
	`
	var view models.TransactionView
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&view.ID, &view.TransactionDate, &view.ProductReference,
		&view.CountryIsoCode, &view.TransactionCode, &view.Unit,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &view, nil
}

// List returns all non-deleted transactions ascending by transactionDate.
func (r *TransactionRepository) List(ctx context.Context) ([]models.TransactionView, error) {
	query := `
		SELECT id, transaction_date, product_reference, country_iso_code, transaction_code, unit
		FROM transactions
		WHERE deleted_at IS NULL
		ORDER BY transaction_date ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactionViews(rows)
}

// SummaryFilter is the fully resolved predicate for Summary: the service has
// already defaulted DateTo, expanded the market to its country set, and
// applied any country-code override. A nil CountryIsoCodes means no country
// restriction; an empty non-nil set matches nothing.
type SummaryFilter struct {
	DateFrom        string
	DateTo          string
	CountryIsoCodes []string
}

// Summary runs the filtered listing plus the two grouped-sum branches against
// the same predicate. Date bounds are inclusive and compared lexically on the
// stored strings.
func (r *TransactionRepository) Summary(ctx context.Context, filter SummaryFilter) (*models.TransactionSummary, error) {
	where := "deleted_at IS NULL AND transaction_date <= $1"
	args := []any{filter.DateTo}

	if filter.DateFrom != "" {
		args = append(args, filter.DateFrom)
		where += fmt.Sprintf(" AND transaction_date >= $%d", len(args))
	}
	if filter.CountryIsoCodes != nil {
		args = append(args, pq.Array(filter.CountryIsoCodes))
		where += fmt.Sprintf(" AND country_iso_code = ANY($%d)", len(args))
	}

	listQuery := fmt.Sprintf(`
		SELECT id, transaction_date, product_reference, country_iso_code, transaction_code, unit
		FROM transactions
		WHERE %s
		ORDER BY transaction_date ASC
	`, where)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction summary: %w", err)
	}
	defer rows.Close()

	transactions, err := scanTransactionViews(rows)
	if err != nil {
		return nil, err
	}

	totalsQuery := fmt.Sprintf(`
		SELECT COALESCE(SUM(unit) FILTER (WHERE transaction_code = %d), 0),
			   COALESCE(SUM(unit) FILTER (WHERE transaction_code = %d), 0)
		FROM transactions
		WHERE %s
	`, models.TransactionSale, models.TransactionReturned, where)

	summary := &models.TransactionSummary{Transactions: transactions}
	if err := r.db.QueryRowContext(ctx, totalsQuery, args...).
		Scan(&summary.SalesTotal, &summary.ReturnsTotal); err != nil {
		return nil, fmt.Errorf("failed to query transaction totals: %w", err)
	}
	return summary, nil
}

// TransactionUpdate carries the partial update; nil fields are left unchanged.
type TransactionUpdate struct {
	TransactionDate  *string
	ProductReference *string
	CountryIsoCode   *string
	TransactionCode  *int
	Unit             *int
}

// Update applies the partial update and returns the updated view, or nil when
// the transaction does not exist.
func (r *TransactionRepository) Update(ctx context.Context, id string, update TransactionUpdate) (*models.TransactionView, error) {
	query := `
		UPDATE transactions
		SET transaction_date = COALESCE($2, transaction_date),
			product_reference = COALESCE($3, product_reference),
			country_iso_code = COALESCE($4, country_iso_code),
			transaction_code = COALESCE($5, transaction_code),
			unit = COALESCE($6, unit),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, transaction_date, product_reference, country_iso_code, transaction_code, unit
	`
	var view models.TransactionView
	err := r.db.QueryRowContext(ctx, query, id,
		nullStr(update.TransactionDate), nullStr(update.ProductReference),
		nullStr(update.CountryIsoCode), nullInt(update.TransactionCode), nullInt(update.Unit),
	).Scan(
		&view.ID, &view.TransactionDate, &view.ProductReference,
		&view.CountryIsoCode, &view.TransactionCode, &view.Unit,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return &view, nil
}

// Delete soft-deletes the transaction and returns the last view, or nil when
// it does not exist.
func (r *TransactionRepository) Delete(ctx context.Context, id string) (*models.TransactionView, error) {
	query := `
		UPDATE transactions
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, transaction_date, product_reference, country_iso_code, transaction_code, unit
	`
	var view models.TransactionView
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&view.ID, &view.TransactionDate, &view.ProductReference,
		&view.CountryIsoCode, &view.TransactionCode, &view.Unit,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete transaction: %w", err)
	}
	return &view, nil
}

// IncrCountryCount bumps the per-country transaction counter in Redis.
// Maintained by the event subscriber; a failure is logged, not surfaced.
func (r *TransactionRepository) IncrCountryCount(ctx context.Context, isoCode string) {
	if err := r.redis.Incr(ctx, transactionStatsKeyPrefix+isoCode).Err(); err != nil {
		log.Printf("Failed to increment transaction counter for %s: %v", isoCode, err)
	}
}

// DecrCountryCount lowers the per-country transaction counter in Redis.
func (r *TransactionRepository) DecrCountryCount(ctx context.Context, isoCode string) {
	if err := r.redis.Decr(ctx, transactionStatsKeyPrefix+isoCode).Err(); err != nil {
		log.Printf("Failed to decrement transaction counter for %s: %v", isoCode, err)
	}
}

func scanTransactionViews(rows *sql.Rows) ([]models.TransactionView, error) {
	views := []models.TransactionView{}
	for rows.Next() {
		var view models.TransactionView
		if err := rows.Scan(
			&view.ID, &view.TransactionDate, &view.ProductReference,
			&view.CountryIsoCode, &view.TransactionCode, &view.Unit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
