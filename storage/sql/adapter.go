package sql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhi2022git/currency-conversion/storage/types"
)

var errUnknownPolicy = errors.New("unknown merge policy")

const selectColumns = `
	conversion_date, conversion_year, conversion_month,
	country, country_code, currency, conversion_rate`

// Storage is the Postgres-backed dataset store
type Storage struct {
	pool *pgxpool.Pool
}

func NewStorage(pool *pgxpool.Pool) *Storage {
	return &Storage{
		pool: pool,
	}
}

func (s *Storage) Load(ctx context.Context) ([]*types.ConversionRow, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT `+selectColumns+`
		FROM conversion_rows
		ORDER BY conversion_date, currency`,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch dataset: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Merge upserts the given rows inside a single transaction.
// The supersede policy overwrites colliding keys; insert-if-absent
// leaves them untouched
func (s *Storage) Merge(
	ctx context.Context,
	rows []*types.ConversionRow,
	policy types.MergePolicy,
) error {
	var query string

	switch policy {
	case types.PolicySupersede:
		query = `INSERT INTO conversion_rows (` + selectColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (conversion_date, currency) DO UPDATE SET
				conversion_year = EXCLUDED.conversion_year,
				conversion_month = EXCLUDED.conversion_month,
				country = EXCLUDED.country,
				country_code = EXCLUDED.country_code,
				conversion_rate = EXCLUDED.conversion_rate`
	case types.PolicyInsertIfAbsent:
		query = `INSERT INTO conversion_rows (` + selectColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (conversion_date, currency) DO NOTHING`
	default:
		return fmt.Errorf("%w: %s", errUnknownPolicy, policy)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("unable to begin merge transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback after commit is a no-op

	for _, row := range rows {
		_, err := tx.Exec(
			ctx,
			query,
			row.Date,
			row.Year,
			row.Month,
			row.Country,
			row.CountryCode,
			row.Currency.String(),
			row.Rate,
		)
		if err != nil {
			return fmt.Errorf("unable to merge row %s: %w", row.Key(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("unable to commit merge: %w", err)
	}

	return nil
}

func (s *Storage) RatesOn(ctx context.Context, date string) ([]*types.ConversionRow, error) {
	if date == "" {
		row := s.pool.QueryRow(
			ctx,
			`SELECT to_char(max(conversion_date), 'YYYY-MM-DD') FROM conversion_rows`,
		)

		var latest *string

		if err := row.Scan(&latest); err != nil {
			return nil, fmt.Errorf("unable to fetch latest date: %w", err)
		}

		if latest == nil {
			return nil, nil // empty dataset
		}

		date = *latest
	}

	rows, err := s.pool.Query(
		ctx,
		`SELECT `+selectColumns+`
		FROM conversion_rows
		WHERE conversion_date = $1
		ORDER BY currency`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch rates: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func (s *Storage) ListCurrencies(ctx context.Context) ([]types.Currency, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT DISTINCT currency FROM conversion_rows ORDER BY currency`,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch currencies: %w", err)
	}
	defer rows.Close()

	var out []types.Currency

	for rows.Next() {
		var c string

		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("unable to scan currency: %w", err)
		}

		out = append(out, types.Currency(c))
	}

	return out, rows.Err()
}

func scanRows(rows pgx.Rows) ([]*types.ConversionRow, error) {
	var out []*types.ConversionRow

	for rows.Next() {
		var (
			row      types.ConversionRow
			currency string
		)

		err := rows.Scan(
			&row.Date,
			&row.Year,
			&row.Month,
			&row.Country,
			&row.CountryCode,
			&currency,
			&row.Rate,
		)
		if err != nil {
			return nil, fmt.Errorf("unable to scan row: %w", err)
		}

		row.Currency = types.Currency(currency)
		row.Date = row.Date.UTC()

		out = append(out, &row)
	}

	return out, rows.Err()
}
