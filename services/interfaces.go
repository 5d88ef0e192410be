package services

import (
	"context"

	"github.com/gcbaptista/go-voter-search/model"
)

// Query holds the two optional search strings.
// Both are expected to be normalized before reaching a Filterer.
type Query struct {
	Name         string `json:"name"`
	RelativeName string `json:"relative_name"`
}

// IsEmpty reports whether neither field has content.
func (q Query) IsEmpty() bool {
	return q.Name == "" && q.RelativeName == ""
}

// MatchResult is the subset of a partition's rows that satisfied a query,
// in the partition's original row order.
type MatchResult struct {
	Columns []string       `json:"columns"`
	Rows    []model.Record `json:"rows"`
	Count   int            `json:"count"`
}

// Loader materializes the table behind a dataset identifier.
// It performs I/O and may be slow; callers are expected to memoize its results.
type Loader interface {
	Load(ctx context.Context, id model.DatasetID) (*model.Table, error)
}

// TableStore returns an already-materialized table for a dataset, or a load failure.
type TableStore interface {
	Get(ctx context.Context, id model.DatasetID) (*model.Table, error)
}

// Filterer applies a query to a table.
type Filterer interface {
	Filter(table *model.Table, query Query) MatchResult
}
