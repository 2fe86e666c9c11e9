package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	refreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "econatlas_refreshes_total",
			Help: "Total refresh attempts by outcome",
		},
		[]string{"outcome"},
	)

	recordsSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "econatlas_records_skipped_total",
			Help: "Total catalog records skipped during reconciliation",
		},
	)

	summaryFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "econatlas_summary_failures_total",
			Help: "Total summary artifact regeneration failures",
		},
	)
)

var initOnce sync.Once

// Init registers the collectors. Must be called once at startup.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(refreshesTotal, recordsSkippedTotal, summaryFailuresTotal)
	})
}

// RecordRefresh records one refresh attempt with its outcome label.
func RecordRefresh(outcome string) {
	refreshesTotal.WithLabelValues(outcome).Inc()
}

// RecordSkippedRecord records one catalog record dropped by validation.
func RecordSkippedRecord() {
	recordsSkippedTotal.Inc()
}

// RecordSummaryFailure records one failed artifact regeneration.
func RecordSummaryFailure() {
	summaryFailuresTotal.Inc()
}
