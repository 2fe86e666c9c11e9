package models

import "time"

// RefreshStatus summarises the committed snapshot for the status endpoint.
type RefreshStatus struct {
	TotalCountries  int64      `json:"total_countries"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
}
