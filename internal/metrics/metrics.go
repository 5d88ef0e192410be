// Package metrics exposes Prometheus collectors for partition loading and searches.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcomes recorded by RecordSearch.
const (
	OutcomeMatched     = "matched"
	OutcomeNoMatch     = "no_match"
	OutcomeEmptyQuery  = "empty_query"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
)

// Metrics tracks partition loads and searches.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	searches     *prometheus.CounterVec
	matches      prometheus.Histogram
	searchTime   prometheus.Histogram
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	rowsLoaded   *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "votersearch_searches_total",
			Help: "Searches by outcome",
		}, []string{"outcome"}),
		matches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "votersearch_search_matches",
			Help:    "Rows returned per completed search",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		}),
		searchTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "votersearch_search_duration_seconds",
			Help:    "Time spent filtering a partition",
			Buckets: prometheus.DefBuckets,
		}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "votersearch_partition_loads_total",
			Help: "Partition materializations by status",
		}, []string{"status"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "votersearch_partition_load_duration_seconds",
			Help:    "Time spent materializing a partition",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		rowsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "votersearch_partition_rows",
			Help: "Rows held in memory per loaded dataset",
		}, []string{"dataset"}),
	}

	reg.MustRegister(m.searches, m.matches, m.searchTime, m.loads, m.loadDuration, m.rowsLoaded)
	return m
}

// RecordSearch counts one search interaction. matches and elapsed are only observed
// for searches that reached the filter.
func (m *Metrics) RecordSearch(outcome string, matches int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(outcome).Inc()
	if outcome == OutcomeMatched || outcome == OutcomeNoMatch {
		m.matches.Observe(float64(matches))
		m.searchTime.Observe(elapsed.Seconds())
	}
}

// RecordLoad counts one materialization attempt of dataset.
func (m *Metrics) RecordLoad(dataset string, rows int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.loadDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.loads.WithLabelValues("failed").Inc()
		return
	}
	m.loads.WithLabelValues("loaded").Inc()
	m.rowsLoaded.WithLabelValues(dataset).Set(float64(rows))
}
