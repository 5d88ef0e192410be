package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-voter-search/config"
	"github.com/gcbaptista/go-voter-search/internal/engine"
	"github.com/gcbaptista/go-voter-search/internal/filter"
	"github.com/gcbaptista/go-voter-search/internal/loader"
	"github.com/gcbaptista/go-voter-search/internal/metrics"
	"github.com/gcbaptista/go-voter-search/internal/registry"
	"github.com/gcbaptista/go-voter-search/internal/report"
	"github.com/gcbaptista/go-voter-search/internal/source"
	"github.com/gcbaptista/go-voter-search/store"
)

// app is the wired service: one registry, one store and one engine per process.
type app struct {
	settings *config.Settings
	registry *registry.Registry
	store    *store.PartitionStore
	engine   *engine.Engine
	gatherer *prometheus.Registry
}

func newApp(ctx context.Context, settings *config.Settings, logger *zap.Logger) (*app, error) {
	reg, err := registry.New(settings.Partitions)
	if err != nil {
		return nil, err
	}

	router, err := source.NewRouter(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to set up partition sources: %w", err)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promRegistry)

	partitions := store.NewPartitionStore(
		loader.New(router, loader.WithLogger(logger.Named("loader"))),
		[]string{settings.Columns.Name, settings.Columns.RelativeName},
		store.WithLogger(logger.Named("store")),
		store.WithMetrics(m),
	)

	eng := engine.New(reg, partitions,
		filter.NewEngine(settings.Columns.Name, settings.Columns.RelativeName),
		report.NewReporter(settings.Messages),
		engine.WithLogger(logger.Named("engine")),
		engine.WithMetrics(m),
		engine.WithPlaceholder(settings.Messages.Placeholder),
	)

	return &app{
		settings: settings,
		registry: reg,
		store:    partitions,
		engine:   eng,
		gatherer: promRegistry,
	}, nil
}
