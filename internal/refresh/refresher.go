// Package refresh orchestrates the end-to-end dataset refresh: fetch the
// country catalog and exchange rates, reconcile them record by record,
// commit the snapshot atomically, then regenerate the summary artifact.
package refresh

import (
	"context"
	"log"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"econatlas/internal/metrics"
	"econatlas/internal/models"
)

// CatalogSource fetches the external country catalog.
type CatalogSource interface {
	Fetch(ctx context.Context) ([]models.RawCountry, error)
}

// RateSource fetches the exchange-rate table.
type RateSource interface {
	Fetch(ctx context.Context) (map[string]float64, error)
}

// SnapshotStore commits a full record batch plus the refresh marker
// atomically.
type SnapshotStore interface {
	ApplySnapshot(ctx context.Context, records []models.Country, ts time.Time) error
}

// SummaryCache regenerates the derived summary artifact from the committed
// snapshot.
type SummaryCache interface {
	Regenerate(ctx context.Context) error
}

// OutcomeKind classifies the result of a refresh attempt.
type OutcomeKind int

const (
	// OutcomeOK means the snapshot was committed.
	OutcomeOK OutcomeKind = iota
	// OutcomeConflict means another refresh was already in flight.
	OutcomeConflict
	// OutcomeUnavailable means an external source or the store failed.
	OutcomeUnavailable
)

// String returns the metric/log label for the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeConflict:
		return "conflict"
	default:
		return "unavailable"
	}
}

// Outcome is the caller-visible result of one refresh attempt. Cause is a
// short human-readable string, set for non-OK outcomes only.
type Outcome struct {
	Kind  OutcomeKind
	Cause string
}

// Refresher runs the refresh pipeline. At most one refresh executes at a
// time per process; a second caller fails fast with a conflict outcome
// instead of queueing.
type Refresher struct {
	catalog CatalogSource
	rates   RateSource
	store   SnapshotStore
	summary SummaryCache
	intn    IntN

	inFlight atomic.Bool
}

// New creates a Refresher. A nil intn falls back to the shared math/rand
// source; tests inject a deterministic one.
func New(catalog CatalogSource, rates RateSource, store SnapshotStore, summary SummaryCache, intn IntN) *Refresher {
	if intn == nil {
		intn = rand.IntN
	}
	return &Refresher{
		catalog: catalog,
		rates:   rates,
		store:   store,
		summary: summary,
		intn:    intn,
	}
}

// Refresh runs one end-to-end refresh. Every record committed in a single
// run shares the same refresh timestamp. Summary regeneration failures are
// logged but never downgrade a committed refresh.
func (r *Refresher) Refresh(ctx context.Context) Outcome {
	if !r.inFlight.CompareAndSwap(false, true) {
		metrics.RecordRefresh(OutcomeConflict.String())
		return Outcome{Kind: OutcomeConflict, Cause: "refresh already in progress"}
	}
	defer r.inFlight.Store(false)

	runID := uuid.New()
	start := time.Now()
	log.Printf("Refresh %s: started", runID)

	catalog, err := r.catalog.Fetch(ctx)
	if err != nil {
		return r.fail(runID, "country catalog fetch failed", err)
	}

	rates, err := r.rates.Fetch(ctx)
	if err != nil {
		return r.fail(runID, "exchange rate fetch failed", err)
	}

	ts := time.Now().UTC()
	records := make([]models.Country, 0, len(catalog))
	skipped := 0
	for i := range catalog {
		country, ok := reconcile(&catalog[i], rates, ts, r.intn)
		if !ok {
			skipped++
			metrics.RecordSkippedRecord()
			log.Printf("Refresh %s: skipping invalid catalog record (name=%q, population=%d)",
				runID, catalog[i].Name, catalog[i].Population)
			continue
		}
		records = append(records, *country)
	}

	if err := r.store.ApplySnapshot(ctx, records, ts); err != nil {
		return r.fail(runID, "snapshot commit failed", err)
	}

	if err := r.summary.Regenerate(ctx); err != nil {
		metrics.RecordSummaryFailure()
		log.Printf("Refresh %s: summary regeneration failed: %v", runID, err)
	}

	metrics.RecordRefresh(OutcomeOK.String())
	log.Printf("Refresh %s: committed %d countries (%d skipped) in %v",
		runID, len(records), skipped, time.Since(start))
	return Outcome{Kind: OutcomeOK}
}

// fail records and logs an unavailable outcome. The cause passed to the
// caller is the underlying error text, not internal detail.
func (r *Refresher) fail(runID uuid.UUID, step string, err error) Outcome {
	metrics.RecordRefresh(OutcomeUnavailable.String())
	log.Printf("Refresh %s: %s: %v", runID, step, err)
	return Outcome{Kind: OutcomeUnavailable, Cause: err.Error()}
}
