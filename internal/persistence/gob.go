// Package persistence stores partition tables as gob snapshots.
package persistence

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gcbaptista/go-voter-search/model"
)

func init() {
	// Concrete cell types that can travel inside model.Record values.
	gob.Register(json.Number(""))
	gob.Register(time.Time{})
}

// EncodeTable writes table to w in gob form. Absent cells are omitted.
func EncodeTable(w io.Writer, table *model.Table) error {
	if table == nil {
		return fmt.Errorf("cannot encode nil table")
	}
	compact := model.NewTable(table.Columns, make([]model.Record, len(table.Rows)))
	for i, rec := range table.Rows {
		row := make(model.Record, len(rec))
		for column, value := range rec {
			if value != nil {
				row[column] = value
			}
		}
		compact.Rows[i] = row
	}
	if err := gob.NewEncoder(w).Encode(compact); err != nil {
		return fmt.Errorf("failed to gob encode table: %w", err)
	}
	return nil
}

// DecodeTable reads a gob-encoded table from r.
func DecodeTable(r io.Reader) (*model.Table, error) {
	var table model.Table
	if err := gob.NewDecoder(r).Decode(&table); err != nil {
		return nil, fmt.Errorf("failed to gob decode table: %w", err)
	}
	return model.NewTable(table.Columns, table.Rows), nil
}

// SaveTable writes a snapshot of table to filePath.
// It creates necessary directories and replaces any existing file atomically.
func SaveTable(filePath string, table *model.Table) (err error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = EncodeTable(tmp, table); err != nil {
		return fmt.Errorf("%s: %w", filePath, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), filePath); err != nil {
		return fmt.Errorf("failed to move snapshot into place at %s: %w", filePath, err)
	}
	return nil
}

// LoadTable reads a snapshot written by SaveTable.
// If the file does not exist, it returns an error wrapping os.ErrNotExist.
func LoadTable(filePath string) (*model.Table, error) {
	file, err := os.Open(filePath) // #nosec G304 -- filePath comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer func() { _ = file.Close() }()

	table, err := DecodeTable(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return table, nil
}
