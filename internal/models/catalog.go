package models

// RawCountry is one record as returned by the external country catalog.
// The upstream feed is partial by nature: any field may be absent.
type RawCountry struct {
	Name       string        `json:"name"`
	Capital    *string       `json:"capital"`
	Region     *string       `json:"region"`
	Population int64         `json:"population"`
	Flag       *string       `json:"flag"`
	Currencies []RawCurrency `json:"currencies"`
}

// RawCurrency is one entry of a catalog record's currency list. Only the
// code is used; upstream sends additional fields we ignore.
type RawCurrency struct {
	Code string `json:"code"`
}

// CurrencyCode returns the code of the first listed currency, or "" when
// the record has no usable currency entry.
func (r *RawCountry) CurrencyCode() string {
	if len(r.Currencies) == 0 {
		return ""
	}
	return r.Currencies[0].Code
}
