package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	internalErrors "github.com/gcbaptista/go-voter-search/internal/errors"
	"github.com/gcbaptista/go-voter-search/internal/metrics"
	"github.com/gcbaptista/go-voter-search/model"
)

var searchColumns = []string{"FM_NAME_V2", "RLN_FM_NM_V2"}

// countingLoader serves fixed tables and counts how often each dataset is read.
type countingLoader struct {
	mu      sync.Mutex
	calls   map[model.DatasetID]int
	tables  map[model.DatasetID]func() *model.Table
	failing map[model.DatasetID]error
	gate    chan struct{} // when set, loads block until it is closed
}

func newCountingLoader() *countingLoader {
	return &countingLoader{
		calls:   make(map[model.DatasetID]int),
		tables:  make(map[model.DatasetID]func() *model.Table),
		failing: make(map[model.DatasetID]error),
	}
}

func (l *countingLoader) Load(ctx context.Context, id model.DatasetID) (*model.Table, error) {
	l.mu.Lock()
	l.calls[id]++
	gate := l.gate
	l.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err, ok := l.failing[id]; ok {
		return nil, err
	}
	if build, ok := l.tables[id]; ok {
		return build(), nil
	}
	return nil, errors.New("no such file")
}

func (l *countingLoader) count(id model.DatasetID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[id]
}

func rollTable() *model.Table {
	return model.NewTable([]string{"FM_NAME_V2", "RLN_FM_NM_V2", "AGE"}, []model.Record{
		{"FM_NAME_V2": "  Raman  ", "RLN_FM_NM_V2": "Kumar ", "AGE": " 41"},
		{"FM_NAME_V2": nil, "RLN_FM_NM_V2": int64(5), "AGE": 30},
	})
}

func TestGetMemoizesSuccessfulLoad(t *testing.T) {
	loader := newCountingLoader()
	loader.tables["a.parquet"] = rollTable
	s := NewPartitionStore(loader, searchColumns, WithLogger(zaptest.NewLogger(t)))

	first, err := s.Get(context.Background(), "a.parquet")
	require.NoError(t, err)
	second, err := s.Get(context.Background(), "a.parquet")
	require.NoError(t, err)

	assert.Same(t, first, second, "the cached table is returned")
	assert.Equal(t, 1, loader.count("a.parquet"), "the source is read once")
	assert.Equal(t, StatusAvailable, s.Status("a.parquet"))
}

func TestGetNormalizesSearchColumnsOnce(t *testing.T) {
	loader := newCountingLoader()
	loader.tables["a.parquet"] = rollTable
	s := NewPartitionStore(loader, searchColumns)

	table, err := s.Get(context.Background(), "a.parquet")
	require.NoError(t, err)

	assert.Equal(t, "Raman", table.Rows[0]["FM_NAME_V2"])
	assert.Equal(t, "Kumar", table.Rows[0]["RLN_FM_NM_V2"])
	assert.Equal(t, " 41", table.Rows[0]["AGE"], "other columns are untouched")
	assert.Nil(t, table.Rows[1]["FM_NAME_V2"])
	assert.Equal(t, "5", table.Rows[1]["RLN_FM_NM_V2"])
}

func TestGetRecordsPermanentFailure(t *testing.T) {
	loader := newCountingLoader()
	loader.failing["broken.parquet"] = errors.New("parquet: invalid magic number")
	s := NewPartitionStore(loader, searchColumns)

	_, firstErr := s.Get(context.Background(), "broken.parquet")
	require.Error(t, firstErr)
	assert.True(t, errors.Is(firstErr, internalErrors.ErrPartitionUnavailable))

	var loadErr *internalErrors.LoadError
	require.True(t, errors.As(firstErr, &loadErr))
	assert.Equal(t, "broken.parquet", loadErr.DatasetID)

	table, secondErr := s.Get(context.Background(), "broken.parquet")
	assert.Nil(t, table)
	assert.Same(t, firstErr, secondErr, "the same error is returned immediately")
	assert.Equal(t, 1, loader.count("broken.parquet"), "a failed load is not retried")
	assert.Equal(t, StatusUnavailable, s.Status("broken.parquet"))
}

func TestFailureDoesNotAffectOtherDatasets(t *testing.T) {
	loader := newCountingLoader()
	loader.failing["broken.parquet"] = errors.New("boom")
	loader.tables["ok.parquet"] = rollTable
	s := NewPartitionStore(loader, searchColumns)

	_, err := s.Get(context.Background(), "broken.parquet")
	require.Error(t, err)

	table, err := s.Get(context.Background(), "ok.parquet")
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestGetNilTableIsLoadError(t *testing.T) {
	loader := newCountingLoader()
	loader.tables["empty"] = func() *model.Table { return nil }
	s := NewPartitionStore(loader, searchColumns)

	_, err := s.Get(context.Background(), "empty")
	assert.True(t, errors.Is(err, internalErrors.ErrPartitionUnavailable))
}

func TestGetRecoversLoaderPanic(t *testing.T) {
	loader := newCountingLoader()
	loader.tables["panics"] = func() *model.Table { panic("corrupt column chunk") }
	s := NewPartitionStore(loader, searchColumns)

	var err error
	assert.NotPanics(t, func() {
		_, err = s.Get(context.Background(), "panics")
	})
	assert.True(t, errors.Is(err, internalErrors.ErrPartitionUnavailable))
	assert.Equal(t, StatusUnavailable, s.Status("panics"))
}

func TestGetWithCancelledContextDoesNotLoad(t *testing.T) {
	loader := newCountingLoader()
	loader.tables["a.parquet"] = rollTable
	s := NewPartitionStore(loader, searchColumns)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Get(ctx, "a.parquet")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusNotLoaded, s.Status("a.parquet"))
	assert.Zero(t, loader.count("a.parquet"))

	table, err := s.Get(context.Background(), "a.parquet")
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 1, loader.count("a.parquet"))
}

func TestCancelledWaiterDoesNotFailSharedLoad(t *testing.T) {
	defer goleak.VerifyNone(t)

	loader := newCountingLoader()
	loader.tables["a.parquet"] = rollTable
	loader.gate = make(chan struct{})
	s := NewPartitionStore(loader, searchColumns)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := s.Get(firstCtx, "a.parquet")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return loader.count("a.parquet") == 1 }, time.Second, time.Millisecond)

	type outcome struct {
		table *model.Table
		err   error
	}
	second := make(chan outcome, 1)
	go func() {
		table, err := s.Get(context.Background(), "a.parquet")
		second <- outcome{table, err}
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(loader.gate)
	got := <-second
	require.NoError(t, got.err, "a waiter with a live context observes the load outcome")
	assert.Equal(t, 2, got.table.Len())
	assert.Equal(t, 1, loader.count("a.parquet"))
	assert.Equal(t, StatusAvailable, s.Status("a.parquet"))
}

func TestConcurrentFirstAccessLoadsOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	loader := newCountingLoader()
	loader.tables["a.parquet"] = rollTable
	loader.gate = make(chan struct{})
	s := NewPartitionStore(loader, searchColumns)

	const callers = 32
	var (
		wg      sync.WaitGroup
		started atomic.Int32
		tables  = make([]*model.Table, callers)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Add(1)
			table, err := s.Get(context.Background(), "a.parquet")
			assert.NoError(t, err)
			tables[i] = table
		}(i)
	}

	require.Eventually(t, func() bool { return started.Load() == callers }, time.Second, time.Millisecond)
	close(loader.gate)
	wg.Wait()

	for _, table := range tables {
		assert.Same(t, tables[0], table, "every caller observes the first outcome")
	}
	assert.Equal(t, 1, loader.count("a.parquet"))
}

func TestPreload(t *testing.T) {
	defer goleak.VerifyNone(t)

	loader := newCountingLoader()
	loader.tables["a"] = rollTable
	loader.tables["b"] = rollTable
	loader.failing["c"] = errors.New("missing file")
	s := NewPartitionStore(loader, searchColumns,
		WithMetrics(metrics.New(prometheus.NewRegistry())))

	summary, err := s.Preload(context.Background(), []model.DatasetID{"a", "b", "c"}, 2)
	require.NoError(t, err)
	assert.Equal(t, PreloadSummary{Loaded: 2, Failed: 1}, summary)

	assert.Equal(t, StatusAvailable, s.Status("a"))
	assert.Equal(t, StatusAvailable, s.Status("b"))
	assert.Equal(t, StatusUnavailable, s.Status("c"))

	_, err = s.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 1, loader.count("a"), "preloaded tables are served from memory")
}

func TestPreloadCancelled(t *testing.T) {
	loader := newCountingLoader()
	loader.tables["a"] = rollTable
	s := NewPartitionStore(loader, searchColumns)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Preload(ctx, []model.DatasetID{"a"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLookupAndStatusBeforeLoad(t *testing.T) {
	s := NewPartitionStore(newCountingLoader(), searchColumns)

	_, ok := s.Lookup("never")
	assert.False(t, ok)
	assert.Equal(t, StatusNotLoaded, s.Status("never"))
}
