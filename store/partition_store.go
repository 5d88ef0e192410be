package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	internalErrors "github.com/gcbaptista/go-voter-search/internal/errors"
	"github.com/gcbaptista/go-voter-search/internal/metrics"
	"github.com/gcbaptista/go-voter-search/model"
	"github.com/gcbaptista/go-voter-search/services"
)

// Status describes what the store knows about a dataset.
type Status string

const (
	StatusNotLoaded   Status = "not_loaded"
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
)

// Result is the recorded outcome of materializing one dataset: either a table or a LoadError.
type Result struct {
	Table *model.Table
	Err   error
}

// Available reports whether the dataset loaded successfully.
func (r Result) Available() bool {
	return r.Err == nil && r.Table != nil
}

// PartitionStore materializes each dataset at most once per process and keeps the
// outcome forever. A failed load is remembered as a permanent LoadError.
// It is safe for concurrent use; concurrent first requests for one dataset share a single load.
// It implements services.TableStore.
type PartitionStore struct {
	mu      sync.RWMutex
	results map[model.DatasetID]Result
	group   singleflight.Group

	loader  services.Loader
	columns []string // distinguished columns normalized at load time
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a PartitionStore.
type Option func(*PartitionStore)

// WithLogger sets the logger used to report loads.
func WithLogger(logger *zap.Logger) Option {
	return func(s *PartitionStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records load counts and durations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *PartitionStore) {
		s.metrics = m
	}
}

// NewPartitionStore creates a store reading through loader. Every table it caches has
// the given columns trimmed to text once, right after loading.
func NewPartitionStore(loader services.Loader, columns []string, opts ...Option) *PartitionStore {
	s := &PartitionStore{
		results: make(map[model.DatasetID]Result),
		loader:  loader,
		columns: columns,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the table for id, loading it on first access.
// Failures are returned as *errors.LoadError, and the same error is returned on every later
// call without touching the source again.
// The load itself is detached from ctx: a caller whose ctx ends stops waiting and gets
// ctx's error, while the load continues for every other caller and is recorded as usual.
func (s *PartitionStore) Get(ctx context.Context, id model.DatasetID) (*model.Table, error) {
	if r, ok := s.Lookup(id); ok {
		return r.Table, r.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	flight := s.group.DoChan(string(id), func() (interface{}, error) {
		// A flight that finished between Lookup and DoChan has already recorded the outcome.
		if r, ok := s.Lookup(id); ok {
			return r, nil
		}
		r := s.load(context.WithoutCancel(ctx), id)
		s.mu.Lock()
		s.results[id] = r
		s.mu.Unlock()
		return r, nil
	})

	select {
	case res := <-flight:
		r := res.Val.(Result)
		return r.Table, r.Err
	case <-ctx.Done():
		s.logger.Debug("Stopped waiting for partition load", zap.String("dataset", string(id)), zap.Error(ctx.Err()))
		return nil, ctx.Err()
	}
}

// Lookup returns the recorded outcome for id without loading.
func (s *PartitionStore) Lookup(id model.DatasetID) (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[id]
	return r, ok
}

// Status reports whether id is loaded, permanently unavailable, or not yet attempted.
func (s *PartitionStore) Status(id model.DatasetID) Status {
	r, ok := s.Lookup(id)
	switch {
	case !ok:
		return StatusNotLoaded
	case r.Available():
		return StatusAvailable
	default:
		return StatusUnavailable
	}
}

// PreloadSummary counts the outcomes of a Preload.
type PreloadSummary struct {
	Loaded int `json:"loaded"`
	Failed int `json:"failed"`
}

// Preload loads every id with at most concurrency loads in flight.
// Individual failures are recorded and counted, never returned; the only error is ctx's.
func (s *PartitionStore) Preload(ctx context.Context, ids []model.DatasetID, concurrency int) (PreloadSummary, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	var (
		mu      sync.Mutex
		summary PreloadSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, id := range ids {
		g.Go(func() error {
			_, err := s.Get(gctx, id)
			mu.Lock()
			if err != nil {
				summary.Failed++
			} else {
				summary.Loaded++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return summary, ctx.Err()
}

// load materializes id. Every outcome, including a recovered panic, is final.
func (s *PartitionStore) load(ctx context.Context, id model.DatasetID) (result Result) {
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			err := internalErrors.NewLoadError(string(id), fmt.Errorf("panic while loading: %v", p))
			s.recordFailure(id, err, time.Since(start))
			result = Result{Err: err}
		}
	}()

	table, err := s.loader.Load(ctx, id)
	elapsed := time.Since(start)

	if err != nil {
		loadErr := internalErrors.NewLoadError(string(id), err)
		s.recordFailure(id, loadErr, elapsed)
		return Result{Err: loadErr}
	}
	if table == nil {
		loadErr := internalErrors.NewLoadError(string(id), errors.New("loader returned no table"))
		s.recordFailure(id, loadErr, elapsed)
		return Result{Err: loadErr}
	}

	table.NormalizeColumns(s.columns...)
	for _, column := range s.columns {
		if !table.HasColumn(column) {
			s.logger.Warn("Partition is missing a search column; predicates on it will match nothing",
				zap.String("dataset", string(id)),
				zap.String("column", column))
		}
	}

	s.logger.Info("Loaded partition",
		zap.String("dataset", string(id)),
		zap.Int("rows", table.Len()),
		zap.Duration("took", elapsed))
	s.metrics.RecordLoad(string(id), table.Len(), elapsed, nil)
	return Result{Table: table}
}

func (s *PartitionStore) recordFailure(id model.DatasetID, err error, elapsed time.Duration) {
	s.logger.Warn("Partition unavailable", zap.String("dataset", string(id)), zap.Error(err))
	s.metrics.RecordLoad(string(id), 0, elapsed, err)
}
