package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	internalErrors "github.com/gcbaptista/go-voter-search/internal/errors"
	"github.com/gcbaptista/go-voter-search/internal/metrics"
	"github.com/gcbaptista/go-voter-search/internal/report"
	"github.com/gcbaptista/go-voter-search/internal/textnorm"
	"github.com/gcbaptista/go-voter-search/model"
	"github.com/gcbaptista/go-voter-search/services"
)

// SearchRequest is one press of the search button: a partition label and the two raw name inputs.
type SearchRequest struct {
	Partition    string `json:"partition"`
	Name         string `json:"name"`
	RelativeName string `json:"relative_name"`
}

// SearchResponse is the formatted outcome of a search.
type SearchResponse struct {
	SearchID  string         `json:"search_id"`
	Partition string         `json:"partition"`
	Query     services.Query `json:"query"`
	Took      int64          `json:"took"` // milliseconds
	report.DisplayPayload
}

// Selection is the outcome of choosing a partition.
type Selection struct {
	Label    string `json:"label"`
	RowCount int    `json:"row_count"`
	report.Notice
}

// SelectPartition loads the partition behind label and summarizes it.
// An unloadable partition returns an error satisfying errors.Is(err, ErrPartitionUnavailable).
func (e *Engine) SelectPartition(ctx context.Context, label string) (*Selection, error) {
	table, label, err := e.partitionTable(ctx, label)
	if err != nil {
		return nil, err
	}
	return &Selection{
		Label:    label,
		RowCount: table.Len(),
		Notice:   e.reporter.PartitionLoaded(label, table.Len()),
	}, nil
}

// Search normalizes the inputs, rejects a query with no name at all, and filters the
// selected partition. The filter is never invoked for an empty query.
func (e *Engine) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	start := time.Now()
	searchID := uuid.NewString()

	query := services.Query{
		Name:         textnorm.Normalize(req.Name),
		RelativeName: textnorm.Normalize(req.RelativeName),
	}

	table, label, err := e.partitionTable(ctx, req.Partition)
	if err != nil {
		e.recordFailure(searchID, req.Partition, err)
		return nil, err
	}

	if query.IsEmpty() {
		e.metrics.RecordSearch(metrics.OutcomeEmptyQuery, 0, 0)
		return nil, internalErrors.NewEmptyQueryError()
	}

	result := e.filter.Filter(table, query)
	payload := e.reporter.Summarize(result)
	elapsed := time.Since(start)

	outcome := metrics.OutcomeMatched
	if payload.Empty {
		outcome = metrics.OutcomeNoMatch
	}
	e.metrics.RecordSearch(outcome, result.Count, elapsed)

	e.logger.Debug("Search completed",
		zap.String("search_id", searchID),
		zap.String("partition", label),
		zap.Int("rows", table.Len()),
		zap.Int("matches", result.Count),
		zap.Duration("took", elapsed))

	return &SearchResponse{
		SearchID:       searchID,
		Partition:      label,
		Query:          query,
		Took:           elapsed.Milliseconds(),
		DisplayPayload: payload,
	}, nil
}

// partitionTable resolves label and returns its table along with the trimmed label.
func (e *Engine) partitionTable(ctx context.Context, label string) (*model.Table, string, error) {
	label = strings.TrimSpace(label)
	if label == "" || label == e.placeholder {
		return nil, "", internalErrors.NewValidationError("partition", "a partition must be selected")
	}

	id, err := e.registry.Resolve(label)
	if err != nil {
		return nil, label, err
	}

	table, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, label, err
	}
	return table, label, nil
}

func (e *Engine) recordFailure(searchID, label string, err error) {
	switch {
	case errors.Is(err, internalErrors.ErrPartitionNotFound):
		e.metrics.RecordSearch(metrics.OutcomeNotFound, 0, 0)
	case errors.Is(err, internalErrors.ErrPartitionUnavailable):
		e.metrics.RecordSearch(metrics.OutcomeUnavailable, 0, 0)
		e.logger.Debug("Search on unavailable partition",
			zap.String("search_id", searchID),
			zap.String("partition", label),
			zap.Error(err))
	}
}
