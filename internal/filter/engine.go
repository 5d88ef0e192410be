// Package filter narrows a partition table down to the rows matching a name query.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/gcbaptista/go-voter-search/model"
	"github.com/gcbaptista/go-voter-search/services"
)

// Engine applies the name and relative-name predicates of a query to a table.
// It implements services.Filterer.
type Engine struct {
	nameColumn         string
	relativeNameColumn string
}

// NewEngine creates a filter engine matching against the given distinguished columns.
func NewEngine(nameColumn, relativeNameColumn string) *Engine {
	return &Engine{
		nameColumn:         nameColumn,
		relativeNameColumn: relativeNameColumn,
	}
}

// Filter returns the rows of table whose name column contains query.Name and whose
// relative-name column contains query.RelativeName. An empty query field imposes no
// condition. Matching is a literal, case-insensitive substring test; rows with an absent
// value never match a non-empty field. Row order is preserved.
func (e *Engine) Filter(table *model.Table, query services.Query) services.MatchResult {
	if table == nil {
		return services.MatchResult{Columns: []string{}, Rows: []model.Record{}}
	}

	// The result never aliases the table's backing array.
	rows := append(make([]model.Record, 0, len(table.Rows)), table.Rows...)
	if query.Name != "" {
		rows = e.retain(rows, e.nameColumn, query.Name)
	}
	if query.RelativeName != "" {
		rows = e.retain(rows, e.relativeNameColumn, query.RelativeName)
	}

	return services.MatchResult{
		Columns: table.Columns,
		Rows:    rows,
		Count:   len(rows),
	}
}

// retain keeps the rows whose column contains needle.
func (e *Engine) retain(rows []model.Record, column, needle string) []model.Record {
	folder := cases.Fold()
	foldedNeedle := folder.String(needle)

	matched := make([]model.Record, 0)
	for _, rec := range rows {
		value, ok := rec.Text(column)
		if !ok {
			continue
		}
		if strings.Contains(folder.String(value), foldedNeedle) {
			matched = append(matched, rec)
		}
	}
	return matched
}
