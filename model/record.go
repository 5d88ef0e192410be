package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DatasetID is an opaque reference to the physical source backing one partition
// (a local path, or an s3:// / minio:// object reference).
type DatasetID string

// Record is a single row of a partition table.
// Values are accessed by column name. A missing key or a nil value means the cell is absent.
// Example: rec["FM_NAME_V2"], rec["RLN_FM_NM_V2"]
type Record map[string]interface{}

// Get returns the value stored under column, and whether the cell is present and non-nil.
func (r Record) Get(column string) (interface{}, bool) {
	v, ok := r[column]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Text returns the cell under column coerced to text. See Text.
func (r Record) Text(column string) (string, bool) {
	v, ok := r.Get(column)
	if !ok {
		return "", false
	}
	return Text(v)
}

// Text converts a cell value to its text form. It is total: every value has a text form,
// except nil, which reports ok=false so callers can treat it as absent.
func Text(v interface{}) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case *string:
		if val == nil {
			return "", false
		}
		return *val, true
	case []byte:
		return string(val), true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint32:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case time.Time:
		return formatTime(val), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return fmt.Sprint(val), true
	}
}

// formatTime renders calendar dates as YYYY-MM-DD and other instants as RFC 3339.
func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339Nano)
}

// Table is an ordered sequence of records read from one partition source.
// Columns keeps the schema order of the source so rows can be rendered verbatim.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// NewTable creates a table with the given column order and rows.
func NewTable(columns []string, rows []Record) *Table {
	if columns == nil {
		columns = []string{}
	}
	if rows == nil {
		rows = []Record{}
	}
	return &Table{Columns: columns, Rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether column is part of the table schema.
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// NormalizeColumns rewrites every present cell of the given columns to its trimmed text form.
// Absent cells stay absent. Columns missing from the schema are skipped.
func (t *Table) NormalizeColumns(columns ...string) {
	for _, column := range columns {
		if !t.HasColumn(column) {
			continue
		}
		for _, rec := range t.Rows {
			if s, ok := rec.Text(column); ok {
				rec[column] = strings.TrimSpace(s)
			}
		}
	}
}
