// Package engine runs the search interaction: it resolves a partition label, loads its
// table through the store, applies the filter and formats the outcome.
package engine

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gcbaptista/go-voter-search/internal/metrics"
	"github.com/gcbaptista/go-voter-search/internal/registry"
	"github.com/gcbaptista/go-voter-search/internal/report"
	"github.com/gcbaptista/go-voter-search/services"
	"github.com/gcbaptista/go-voter-search/store"
)

// PartitionInfo describes one selectable partition and what the store knows about it.
type PartitionInfo struct {
	Label  string       `json:"label"`
	Code   int          `json:"code"`
	Status store.Status `json:"status"`
}

// Engine coordinates the registry, the partition store, the filter and the reporter.
// It is safe for concurrent use.
type Engine struct {
	registry    *registry.Registry
	store       *store.PartitionStore
	filter      services.Filterer
	reporter    *report.Reporter
	placeholder string

	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used to report searches.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records search outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithPlaceholder sets the label of the "nothing selected" choice. Selecting it is the
// same as selecting nothing.
func WithPlaceholder(label string) Option {
	return func(e *Engine) {
		e.placeholder = strings.TrimSpace(label)
	}
}

// New creates an Engine.
func New(reg *registry.Registry, partitions *store.PartitionStore, filterer services.Filterer, reporter *report.Reporter, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		store:    partitions,
		filter:   filterer,
		reporter: reporter,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reporter returns the reporter used to phrase outcomes.
func (e *Engine) Reporter() *report.Reporter {
	return e.reporter
}

// Labels returns every partition label ordered by numeric code.
func (e *Engine) Labels() []string {
	return e.registry.LabelsSortedByCode()
}

// Partitions lists every partition in display order with its load status.
// Partitions whose data failed to load are still listed.
func (e *Engine) Partitions() []PartitionInfo {
	partitions := e.registry.Partitions()
	infos := make([]PartitionInfo, len(partitions))
	for i, p := range partitions {
		infos[i] = PartitionInfo{
			Label:  p.Label,
			Code:   p.Code,
			Status: e.store.Status(p.Dataset),
		}
	}
	return infos
}

// Preload materializes every partition with at most concurrency loads in flight.
// Individual failures are recorded in the store; only cancellation is returned.
func (e *Engine) Preload(ctx context.Context, concurrency int) (store.PreloadSummary, error) {
	start := time.Now()
	summary, err := e.store.Preload(ctx, e.registry.DatasetIDs(), concurrency)
	if err != nil {
		return summary, err
	}

	e.logger.Info("Preloaded partitions",
		zap.Int("loaded", summary.Loaded),
		zap.Int("failed", summary.Failed),
		zap.Duration("took", time.Since(start)))
	return summary, nil
}
