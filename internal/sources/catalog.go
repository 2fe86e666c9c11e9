// Package sources contains typed clients for the external datasets the
// refresh pipeline consumes. The upstream services are untrusted for both
// content and latency, so every request is bounded by the client timeout
// and any non-200 response is an error.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"econatlas/internal/models"
)

// CatalogClient fetches the country catalog.
type CatalogClient struct {
	url    string
	client *http.Client
}

// NewCatalogClient creates a catalog client with a bounded request timeout.
func NewCatalogClient(url string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the full country catalog.
func (c *CatalogClient) Fetch(ctx context.Context) ([]models.RawCountry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch country catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("country catalog returned status %d", resp.StatusCode)
	}

	var countries []models.RawCountry
	if err := json.NewDecoder(resp.Body).Decode(&countries); err != nil {
		return nil, fmt.Errorf("failed to decode country catalog: %w", err)
	}

	return countries, nil
}
