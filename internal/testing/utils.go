// Package testing provides fixtures and helpers for testing the voter search service.
package testing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gcbaptista/go-voter-search/config"
	"github.com/gcbaptista/go-voter-search/internal/engine"
	"github.com/gcbaptista/go-voter-search/internal/filter"
	"github.com/gcbaptista/go-voter-search/internal/metrics"
	"github.com/gcbaptista/go-voter-search/internal/registry"
	"github.com/gcbaptista/go-voter-search/internal/report"
	"github.com/gcbaptista/go-voter-search/model"
	"github.com/gcbaptista/go-voter-search/services"
	"github.com/gcbaptista/go-voter-search/store"
)

// Partition labels used by the fixtures.
const (
	LabelMettupalayam = "101 - மெட்டுப்பாளையம் (Mettupalayam)"
	LabelPerur        = "107 - பேரூர் (Perur)"
	LabelPongalur     = "114 - பொங்கலூர் (Pongalur)"
)

// Datasets backing the fixture partitions. Pongalur's dataset always fails to load.
const (
	DatasetMettupalayam model.DatasetID = "AC_101_Mettupalayam.parquet"
	DatasetPerur        model.DatasetID = "AC_107_Perur.parquet"
	DatasetPongalur     model.DatasetID = "AC_114_Pongalur.parquet"
)

// ErrCorruptDataset is the load failure of DatasetPongalur.
var ErrCorruptDataset = errors.New("parquet: invalid magic number")

// Partitions returns configuration entries for the fixture partitions, deliberately out of code order.
func Partitions() []config.PartitionEntry {
	return []config.PartitionEntry{
		{Label: LabelPongalur, Source: string(DatasetPongalur)},
		{Label: LabelMettupalayam, Source: string(DatasetMettupalayam)},
		{Label: LabelPerur, Source: string(DatasetPerur)},
	}
}

// MettupalayamTable returns a fresh copy of the Mettupalayam roll. Search columns carry
// stray whitespace so that load-time normalization is observable.
func MettupalayamTable() *model.Table {
	return model.NewTable([]string{"SLNO", config.DefaultNameColumn, config.DefaultRelativeNameColumn, "AGE"}, []model.Record{
		{"SLNO": int64(1), config.DefaultNameColumn: "Raman ", config.DefaultRelativeNameColumn: "Kumar", "AGE": int64(41)},
		{"SLNO": int64(2), config.DefaultNameColumn: "Raman", config.DefaultRelativeNameColumn: " Velu", "AGE": int64(67)},
		{"SLNO": int64(3), config.DefaultNameColumn: "MURUGAN", config.DefaultRelativeNameColumn: "Mathiyazhagan", "AGE": int64(29)},
		{"SLNO": int64(4), config.DefaultNameColumn: "S.Raman", config.DefaultRelativeNameColumn: nil, "AGE": int64(52)},
		{"SLNO": int64(5), config.DefaultNameColumn: "முருகன்", config.DefaultRelativeNameColumn: "மதியழகன்", "AGE": int64(35)},
	})
}

// PerurTable returns a fresh copy of the Perur roll.
func PerurTable() *model.Table {
	return model.NewTable([]string{"SLNO", config.DefaultNameColumn, config.DefaultRelativeNameColumn}, []model.Record{
		{"SLNO": int64(1), config.DefaultNameColumn: "Lakshmi", config.DefaultRelativeNameColumn: "Raman"},
		{"SLNO": int64(2), config.DefaultNameColumn: "Raman", config.DefaultRelativeNameColumn: "Kumar"},
	})
}

// CountingLoader serves the fixture tables and counts loads per dataset.
type CountingLoader struct {
	mu    sync.Mutex
	calls map[model.DatasetID]int
}

// NewCountingLoader creates a CountingLoader.
func NewCountingLoader() *CountingLoader {
	return &CountingLoader{calls: make(map[model.DatasetID]int)}
}

// Load implements services.Loader.
func (l *CountingLoader) Load(_ context.Context, id model.DatasetID) (*model.Table, error) {
	l.mu.Lock()
	l.calls[id]++
	l.mu.Unlock()

	switch id {
	case DatasetMettupalayam:
		return MettupalayamTable(), nil
	case DatasetPerur:
		return PerurTable(), nil
	case DatasetPongalur:
		return nil, ErrCorruptDataset
	default:
		return nil, errors.New("no such file: " + string(id))
	}
}

// Calls returns how many times id was loaded.
func (l *CountingLoader) Calls(id model.DatasetID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[id]
}

// SpyFilter records every call before delegating to the real filter.
type SpyFilter struct {
	mu      sync.Mutex
	next    services.Filterer
	queries []services.Query
}

// NewSpyFilter wraps next.
func NewSpyFilter(next services.Filterer) *SpyFilter {
	return &SpyFilter{next: next}
}

// Filter implements services.Filterer.
func (s *SpyFilter) Filter(table *model.Table, query services.Query) services.MatchResult {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	return s.next.Filter(table, query)
}

// Calls returns the queries the filter has seen.
func (s *SpyFilter) Calls() []services.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]services.Query(nil), s.queries...)
}

// TestEnv bundles an engine with the instrumented pieces behind it.
type TestEnv struct {
	Engine   *engine.Engine
	Store    *store.PartitionStore
	Loader   *CountingLoader
	Filter   *SpyFilter
	Registry *prometheus.Registry
	Settings *config.Settings
}

// CreateTestEngine builds an engine over the fixture partitions with default columns and messages.
func CreateTestEngine(t *testing.T) *TestEnv {
	t.Helper()

	settings := config.DefaultSettings()
	settings.Partitions = Partitions()

	reg, err := registry.New(settings.Partitions)
	require.NoError(t, err, "Failed to build test registry")

	logger := zaptest.NewLogger(t)
	promRegistry := prometheus.NewRegistry()
	m := metrics.New(promRegistry)

	loader := NewCountingLoader()
	partitions := store.NewPartitionStore(loader,
		[]string{settings.Columns.Name, settings.Columns.RelativeName},
		store.WithLogger(logger),
		store.WithMetrics(m))

	spy := NewSpyFilter(filter.NewEngine(settings.Columns.Name, settings.Columns.RelativeName))

	eng := engine.New(reg, partitions, spy, report.NewReporter(settings.Messages),
		engine.WithLogger(logger),
		engine.WithMetrics(m),
		engine.WithPlaceholder(settings.Messages.Placeholder))

	return &TestEnv{
		Engine:   eng,
		Store:    partitions,
		Loader:   loader,
		Filter:   spy,
		Registry: promRegistry,
		Settings: settings,
	}
}
