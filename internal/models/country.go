package models

import (
	"time"
)

// Country represents one persisted country record with its derived
// economic estimate. Nullable columns are pointers; note that a nil
// EstimatedGDP (currency unknown to the rate table) is distinct from a
// pointer to zero (country has no currency at all).
type Country struct {
	Name            string    `json:"name"`
	Capital         *string   `json:"capital"`
	Region          *string   `json:"region"`
	Population      int64     `json:"population"`
	CurrencyCode    *string   `json:"currency_code"`
	ExchangeRate    *float64  `json:"exchange_rate"`
	EstimatedGDP    *float64  `json:"estimated_gdp"`
	FlagURL         *string   `json:"flag_url"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
}

// HasCurrency reports whether the record carries a currency code.
func (c *Country) HasCurrency() bool {
	return c.CurrencyCode != nil && *c.CurrencyCode != ""
}
