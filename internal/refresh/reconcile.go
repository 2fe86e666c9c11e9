package refresh

import (
	"time"

	"econatlas/internal/models"
)

// IntN is a source of non-negative pseudo-random ints in [0, n). It matches
// the signature of rand.IntN so tests can pin the multiplier.
type IntN func(n int) int

// The GDP multiplier is drawn fresh per record, uniform over the 1001
// integers [1000, 2000].
const (
	multiplierMin  = 1000
	multiplierSpan = 1001
)

// estimateGDP derives the economic output figure for one record.
func estimateGDP(population int64, rate float64, intn IntN) float64 {
	multiplier := multiplierMin + intn(multiplierSpan)
	return float64(population) * float64(multiplier) / rate
}

// reconcile merges one raw catalog record with the exchange-rate table into
// a persistable record. The second return value is false when the record
// fails required-field validation and must be skipped.
//
// Currency semantics: a record with no currency at all gets a nil exchange
// rate and an estimated GDP of exactly zero, while a record whose currency
// is missing from the rate table gets nil for both. The asymmetry is
// deliberate and load-bearing for consumers.
func reconcile(raw *models.RawCountry, rates map[string]float64, ts time.Time, intn IntN) (*models.Country, bool) {
	if raw.Name == "" || raw.Population <= 0 {
		return nil, false
	}

	country := &models.Country{
		Name:            raw.Name,
		Capital:         raw.Capital,
		Region:          raw.Region,
		Population:      raw.Population,
		FlagURL:         raw.Flag,
		LastRefreshedAt: ts,
	}

	code := raw.CurrencyCode()
	if code == "" {
		zero := 0.0
		country.EstimatedGDP = &zero
		return country, true
	}
	country.CurrencyCode = &code

	rate, ok := rates[code]
	if !ok || rate <= 0 {
		// Unresolvable currency: both fields stay null.
		return country, true
	}

	country.ExchangeRate = &rate
	gdp := estimateGDP(raw.Population, rate, intn)
	country.EstimatedGDP = &gdp
	return country, true
}
