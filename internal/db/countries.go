package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"econatlas/internal/models"
)

var (
	ErrCountryNotFound = errors.New("country not found")
)

// countryColumns is the standard column list for country queries.
const countryColumns = `name, capital, region, population, currency_code,
	exchange_rate, estimated_gdp, flag_url, last_refreshed_at`

// scanCountry scans a row into a Country struct.
func scanCountry(row pgx.Row) (*models.Country, error) {
	var country models.Country
	err := row.Scan(
		&country.Name,
		&country.Capital,
		&country.Region,
		&country.Population,
		&country.CurrencyCode,
		&country.ExchangeRate,
		&country.EstimatedGDP,
		&country.FlagURL,
		&country.LastRefreshedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCountryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &country, nil
}

// scanCountries scans multiple rows into a slice of Countries.
func scanCountries(rows pgx.Rows) ([]models.Country, error) {
	defer rows.Close()

	var countries []models.Country
	for rows.Next() {
		var country models.Country
		if err := rows.Scan(
			&country.Name,
			&country.Capital,
			&country.Region,
			&country.Population,
			&country.CurrencyCode,
			&country.ExchangeRate,
			&country.EstimatedGDP,
			&country.FlagURL,
			&country.LastRefreshedAt,
		); err != nil {
			return nil, err
		}
		countries = append(countries, country)
	}

	return countries, rows.Err()
}

// ListFilter narrows and orders the country list query.
type ListFilter struct {
	Region       string
	CurrencyCode string
	SortByGDP    bool
	Limit        int
}

// ListCountries returns countries matching the filter. With SortByGDP the
// result is ordered by estimated GDP descending with nulls last; otherwise
// by name.
func (d *DB) ListCountries(ctx context.Context, filter ListFilter) ([]models.Country, error) {
	query := `SELECT ` + countryColumns + ` FROM countries`
	var args []any

	if filter.Region != "" {
		args = append(args, filter.Region)
		query += fmt.Sprintf(" WHERE LOWER(region) = LOWER($%d)", len(args))
	}
	if filter.CurrencyCode != "" {
		args = append(args, filter.CurrencyCode)
		if len(args) == 1 {
			query += fmt.Sprintf(" WHERE UPPER(currency_code) = UPPER($%d)", len(args))
		} else {
			query += fmt.Sprintf(" AND UPPER(currency_code) = UPPER($%d)", len(args))
		}
	}

	if filter.SortByGDP {
		query += " ORDER BY estimated_gdp DESC NULLS LAST, name"
	} else {
		query += " ORDER BY name"
	}

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanCountries(rows)
}

// GetCountryByName returns a single country by name, case-insensitively.
func (d *DB) GetCountryByName(ctx context.Context, name string) (*models.Country, error) {
	query := `SELECT ` + countryColumns + ` FROM countries WHERE LOWER(name) = LOWER($1)`
	return scanCountry(d.Pool.QueryRow(ctx, query, name))
}

// DeleteCountryByName deletes a country by name, case-insensitively.
func (d *DB) DeleteCountryByName(ctx context.Context, name string) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM countries WHERE LOWER(name) = LOWER($1)`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCountryNotFound
	}
	return nil
}

// TopCountriesByGDP returns up to limit countries ordered by estimated GDP
// descending, nulls last.
func (d *DB) TopCountriesByGDP(ctx context.Context, limit int) ([]models.Country, error) {
	query := `SELECT ` + countryColumns + ` FROM countries
		ORDER BY estimated_gdp DESC NULLS LAST, name
		LIMIT $1`

	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return scanCountries(rows)
}

// GetStatus returns the total country count and the refresh marker timestamp.
func (d *DB) GetStatus(ctx context.Context) (*models.RefreshStatus, error) {
	var status models.RefreshStatus
	err := d.Pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM countries), last_refreshed_at
		FROM refresh_marker WHERE id = 1
	`).Scan(&status.TotalCountries, &status.LastRefreshedAt)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// upsertCountryQuery writes one record by name. The key is the exact name;
// case-insensitive matching is a read-side concern only.
const upsertCountryQuery = `
	INSERT INTO countries (name, capital, region, population, currency_code,
		exchange_rate, estimated_gdp, flag_url, last_refreshed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (name) DO UPDATE SET
		capital = EXCLUDED.capital,
		region = EXCLUDED.region,
		population = EXCLUDED.population,
		currency_code = EXCLUDED.currency_code,
		exchange_rate = EXCLUDED.exchange_rate,
		estimated_gdp = EXCLUDED.estimated_gdp,
		flag_url = EXCLUDED.flag_url,
		last_refreshed_at = EXCLUDED.last_refreshed_at
`

// ApplySnapshot upserts the full record batch and advances the refresh
// marker in a single transaction on one pooled connection. Either every
// record and the marker land together, or nothing does.
func (d *DB) ApplySnapshot(ctx context.Context, records []models.Country, ts time.Time) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range records {
		c := &records[i]
		if _, err := tx.Exec(ctx, upsertCountryQuery,
			c.Name,
			c.Capital,
			c.Region,
			c.Population,
			c.CurrencyCode,
			c.ExchangeRate,
			c.EstimatedGDP,
			c.FlagURL,
			ts,
		); err != nil {
			return fmt.Errorf("failed to upsert country %q: %w", c.Name, err)
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE refresh_marker SET last_refreshed_at = $1 WHERE id = 1`, ts,
	); err != nil {
		return fmt.Errorf("failed to update refresh marker: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}
