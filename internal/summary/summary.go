// Package summary maintains the derived summary image: a cached PNG built
// from the committed snapshot. The artifact is fully regenerable at any
// time and its absence is never a dataset error.
package summary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"econatlas/internal/db"
	"econatlas/internal/render"
)

// topCount is how many countries the ranked list shows.
const topCount = 5

// Cache owns the summary artifact file at a fixed, well-known path.
type Cache struct {
	db   *db.DB
	path string
}

// NewCache creates a summary cache writing to path.
func NewCache(database *db.DB, path string) *Cache {
	return &Cache{db: database, path: path}
}

// Path returns the artifact location.
func (c *Cache) Path() string {
	return c.path
}

// Regenerate rebuilds the artifact from the committed snapshot, replacing
// any prior file. The write goes through a temp file and rename so readers
// never observe a torn image.
func (c *Cache) Regenerate(ctx context.Context) error {
	top, err := c.db.TopCountriesByGDP(ctx, topCount)
	if err != nil {
		return fmt.Errorf("failed to read top countries: %w", err)
	}

	status, err := c.db.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to read refresh status: %w", err)
	}

	rows := make([]render.Row, 0, len(top))
	for i, country := range top {
		rows = append(rows, render.Row{
			Rank: i + 1,
			Name: country.Name,
			GDP:  country.EstimatedGDP,
		})
	}

	data, err := render.Image(render.Summary{
		Total:       status.TotalCountries,
		GeneratedAt: status.LastRefreshedAt,
		Rows:        rows,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write summary artifact: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace summary artifact: %w", err)
	}

	return nil
}
