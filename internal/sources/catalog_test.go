package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCatalogClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"name": "Wakanda", "capital": "Birnin Zana", "region": "Africa",
			 "population": 5000000, "flag": "https://example.com/wk.png",
			 "currencies": [{"code": "WKD", "name": "Wakandan Dollar"}]},
			{"name": "Atlantis", "population": 1000}
		]`))
	}))
	defer srv.Close()

	countries, err := NewCatalogClient(srv.URL, 5*time.Second).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(countries) != 2 {
		t.Fatalf("Fetch() returned %d countries, want 2", len(countries))
	}

	first := countries[0]
	if first.Name != "Wakanda" {
		t.Errorf("Name = %q, want Wakanda", first.Name)
	}
	if first.Capital == nil || *first.Capital != "Birnin Zana" {
		t.Errorf("Capital = %v, want Birnin Zana", first.Capital)
	}
	if first.CurrencyCode() != "WKD" {
		t.Errorf("CurrencyCode() = %q, want WKD", first.CurrencyCode())
	}

	// Partial record: absent fields stay zero-valued, no error.
	second := countries[1]
	if second.Capital != nil || len(second.Currencies) != 0 {
		t.Errorf("partial record = %+v, want absent fields left empty", second)
	}
	if second.CurrencyCode() != "" {
		t.Errorf("CurrencyCode() = %q, want empty for no currencies", second.CurrencyCode())
	}
}

func TestCatalogClient_Fetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewCatalogClient(srv.URL, 5*time.Second).Fetch(context.Background()); err == nil {
		t.Error("Fetch() error = nil, want error for non-200 status")
	}
}

func TestCatalogClient_Fetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"}`))
	}))
	defer srv.Close()

	if _, err := NewCatalogClient(srv.URL, 5*time.Second).Fetch(context.Background()); err == nil {
		t.Error("Fetch() error = nil, want decode error")
	}
}

func TestCatalogClient_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	if _, err := NewCatalogClient(srv.URL, 10*time.Millisecond).Fetch(context.Background()); err == nil {
		t.Error("Fetch() error = nil, want timeout error")
	}
}
