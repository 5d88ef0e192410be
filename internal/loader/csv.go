package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gcbaptista/go-voter-search/model"
)

// readCSV reads a header row followed by data rows. Empty cells are absent.
func readCSV(r io.Reader) (*model.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv file has no header row")
	}
	if err != nil {
		return nil, err
	}
	columns := append([]string(nil), header...)
	if len(columns) > 0 {
		columns[0] = strings.TrimPrefix(columns[0], "\ufeff")
	}

	var rows []model.Record
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(fields) > len(columns) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %d fields for %d columns", line, len(fields), len(columns))
		}

		rec := make(model.Record, len(columns))
		for i, value := range fields {
			if value != "" {
				rec[columns[i]] = value
			}
		}
		rows = append(rows, rec)
	}

	return model.NewTable(columns, rows), nil
}
