package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gcbaptista/go-voter-search/model"
)

// readJSON accepts either a JSON array of objects or a stream of objects (JSON Lines).
// Columns are ordered by first appearance so rows render in file order.
func readJSON(r io.Reader) (*model.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var (
		columns []string
		seen    = make(map[string]bool)
		rows    []model.Record
	)
	appendRow := func(keys []string, rec model.Record) {
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
		rows = append(rows, rec)
	}

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return model.NewTable(nil, nil), nil
	}
	if err != nil {
		return nil, err
	}

	switch tok {
	case json.Delim('['):
		for dec.More() {
			if err := expectDelim(dec, '{'); err != nil {
				return nil, err
			}
			keys, rec, err := readObject(dec)
			if err != nil {
				return nil, err
			}
			appendRow(keys, rec)
		}
		if err := expectDelim(dec, ']'); err != nil {
			return nil, err
		}

	case json.Delim('{'):
		for {
			keys, rec, err := readObject(dec)
			if err != nil {
				return nil, err
			}
			appendRow(keys, rec)

			if err := expectDelim(dec, '{'); err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, err
			}
		}

	default:
		return nil, fmt.Errorf("expected an array or object, got %v", tok)
	}

	return model.NewTable(columns, rows), nil
}

// readObject reads the members of an object whose opening brace was already consumed.
func readObject(dec *json.Decoder) ([]string, model.Record, error) {
	var keys []string
	rec := make(model.Record)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", key, err)
		}
		if _, dup := rec[key]; !dup {
			keys = append(keys, key)
		}
		if value != nil {
			rec[key] = value
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}
	return keys, rec, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != want {
		return fmt.Errorf("expected %v, got %v", want, tok)
	}
	return nil
}
