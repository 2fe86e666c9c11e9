package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RateClient fetches the exchange-rate table, keyed by currency code and
// relative to a fixed base currency.
type RateClient struct {
	url    string
	client *http.Client
}

// NewRateClient creates a rate client with a bounded request timeout.
func NewRateClient(url string, timeout time.Duration) *RateClient {
	return &RateClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the current exchange-rate table. An empty table is a
// valid response; a response without a rates object is not.
func (c *RateClient) Fetch(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange rate source returned status %d", resp.StatusCode)
	}

	var envelope struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode exchange rates: %w", err)
	}
	if envelope.Rates == nil {
		return nil, fmt.Errorf("exchange rate response missing rates table")
	}

	return envelope.Rates, nil
}
