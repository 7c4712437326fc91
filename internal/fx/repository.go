package fx

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository reads the rate table maintained by the external rate fetcher.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LatestRates returns the most recent stored rate per currency, expressed
// as units per USD.
func (r *Repository) LatestRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("fx repo not initialised")
	}
	const query = `
		SELECT DISTINCT ON (currency) currency, rate
		FROM fx_rates
		ORDER BY currency, as_of DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fx: latest rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			currency string
			rate     decimal.Decimal
		)
		if err := rows.Scan(&currency, &rate); err != nil {
			return nil, fmt.Errorf("fx: scan rate: %w", err)
		}
		rates[currency] = rate
	}
	return rates, rows.Err()
}
