package refresh

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"econatlas/internal/models"
)

type fakeCatalog struct {
	countries []models.RawCountry
	err       error

	// release, when set, blocks Fetch until closed. Used by the
	// concurrency test to hold a refresh in flight.
	release chan struct{}
	calls   atomic.Int32
}

func (f *fakeCatalog) Fetch(ctx context.Context) ([]models.RawCountry, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	return f.countries, f.err
}

type fakeRates struct {
	rates map[string]float64
	err   error
}

func (f *fakeRates) Fetch(ctx context.Context) (map[string]float64, error) {
	return f.rates, f.err
}

type fakeStore struct {
	err     error
	records []models.Country
	ts      time.Time
	calls   int
}

func (f *fakeStore) ApplySnapshot(ctx context.Context, records []models.Country, ts time.Time) error {
	f.calls++
	f.records = records
	f.ts = ts
	return f.err
}

type fakeSummary struct {
	err   error
	calls int
}

func (f *fakeSummary) Regenerate(ctx context.Context) error {
	f.calls++
	return f.err
}

func newTestRefresher(catalog *fakeCatalog, rates *fakeRates, store *fakeStore, summary *fakeSummary) *Refresher {
	return New(catalog, rates, store, summary, func(int) int { return 0 })
}

func TestRefresh_Success(t *testing.T) {
	catalog := &fakeCatalog{countries: []models.RawCountry{
		{Name: "Wakanda", Population: 5000000, Currencies: []models.RawCurrency{{Code: "WKD"}}},
		{Name: "", Population: 10}, // invalid, skipped
		{Name: "Atlantis", Population: 1000},
	}}
	rates := &fakeRates{rates: map[string]float64{"WKD": 2.0}}
	store := &fakeStore{}
	sum := &fakeSummary{}

	outcome := newTestRefresher(catalog, rates, store, sum).Refresh(context.Background())

	if outcome.Kind != OutcomeOK {
		t.Fatalf("Refresh() = %v (%q), want OutcomeOK", outcome.Kind, outcome.Cause)
	}
	if store.calls != 1 {
		t.Fatalf("ApplySnapshot called %d times, want 1", store.calls)
	}
	if len(store.records) != 2 {
		t.Fatalf("committed %d records, want 2 (one skipped)", len(store.records))
	}
	if sum.calls != 1 {
		t.Errorf("Regenerate called %d times, want 1", sum.calls)
	}

	// All records share the run's single timestamp.
	for _, rec := range store.records {
		if !rec.LastRefreshedAt.Equal(store.ts) {
			t.Errorf("record %s timestamp %v differs from batch timestamp %v",
				rec.Name, rec.LastRefreshedAt, store.ts)
		}
	}
}

func TestRefresh_CatalogFailure(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("connection refused")}
	store := &fakeStore{}
	sum := &fakeSummary{}

	outcome := newTestRefresher(catalog, &fakeRates{}, store, sum).Refresh(context.Background())

	if outcome.Kind != OutcomeUnavailable {
		t.Fatalf("Refresh() = %v, want OutcomeUnavailable", outcome.Kind)
	}
	if outcome.Cause == "" {
		t.Error("Outcome.Cause is empty, want the underlying cause text")
	}
	if store.calls != 0 {
		t.Error("store was touched after a catalog failure")
	}
	if sum.calls != 0 {
		t.Error("summary was regenerated after a catalog failure")
	}
}

func TestRefresh_RatesFailure(t *testing.T) {
	catalog := &fakeCatalog{countries: []models.RawCountry{{Name: "Wakanda", Population: 1}}}
	rates := &fakeRates{err: errors.New("status 503")}
	store := &fakeStore{}

	outcome := newTestRefresher(catalog, rates, store, &fakeSummary{}).Refresh(context.Background())

	if outcome.Kind != OutcomeUnavailable {
		t.Fatalf("Refresh() = %v, want OutcomeUnavailable", outcome.Kind)
	}
	if store.calls != 0 {
		t.Error("store was touched after a rates failure")
	}
}

func TestRefresh_StoreFailure(t *testing.T) {
	catalog := &fakeCatalog{countries: []models.RawCountry{{Name: "Wakanda", Population: 1}}}
	store := &fakeStore{err: errors.New("deadlock detected")}
	sum := &fakeSummary{}

	outcome := newTestRefresher(catalog, &fakeRates{rates: map[string]float64{}}, store, sum).Refresh(context.Background())

	if outcome.Kind != OutcomeUnavailable {
		t.Fatalf("Refresh() = %v, want OutcomeUnavailable", outcome.Kind)
	}
	if sum.calls != 0 {
		t.Error("summary was regenerated after a failed commit")
	}
}

func TestRefresh_SummaryFailureIsNonFatal(t *testing.T) {
	catalog := &fakeCatalog{countries: []models.RawCountry{{Name: "Wakanda", Population: 1}}}
	sum := &fakeSummary{err: errors.New("disk full")}

	outcome := newTestRefresher(catalog, &fakeRates{rates: map[string]float64{}}, &fakeStore{}, sum).Refresh(context.Background())

	if outcome.Kind != OutcomeOK {
		t.Fatalf("Refresh() = %v (%q), want OutcomeOK despite summary failure", outcome.Kind, outcome.Cause)
	}
	if sum.calls != 1 {
		t.Errorf("Regenerate called %d times, want 1", sum.calls)
	}
}

func TestRefresh_ConcurrentCallGetsConflict(t *testing.T) {
	release := make(chan struct{})
	catalog := &fakeCatalog{release: release}
	r := newTestRefresher(catalog, &fakeRates{rates: map[string]float64{}}, &fakeStore{}, &fakeSummary{})

	var wg sync.WaitGroup
	first := make(chan Outcome, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		first <- r.Refresh(context.Background())
	}()

	// Wait for the first refresh to be inside its catalog fetch, then the
	// second caller must fail fast without blocking.
	for i := 0; i < 100 && catalog.calls.Load() == 0; i++ {
		time.Sleep(time.Millisecond)
	}
	second := r.Refresh(context.Background())
	if second.Kind != OutcomeConflict {
		t.Errorf("concurrent Refresh() = %v, want OutcomeConflict", second.Kind)
	}

	close(release)
	wg.Wait()
	if outcome := <-first; outcome.Kind != OutcomeOK {
		t.Errorf("first Refresh() = %v, want OutcomeOK", outcome.Kind)
	}
}

func TestRefresh_LatchReleasedAfterFailure(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("boom")}
	r := newTestRefresher(catalog, &fakeRates{}, &fakeStore{}, &fakeSummary{})

	if outcome := r.Refresh(context.Background()); outcome.Kind != OutcomeUnavailable {
		t.Fatalf("Refresh() = %v, want OutcomeUnavailable", outcome.Kind)
	}

	// The failed run must not leak the latch: the next attempt runs.
	catalog.err = nil
	if outcome := r.Refresh(context.Background()); outcome.Kind != OutcomeOK {
		t.Errorf("Refresh() after failure = %v, want OutcomeOK", outcome.Kind)
	}
}
