package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow/go/v7/arrow"
	"github.com/apache/arrow/go/v7/arrow/array"
	"github.com/apache/arrow/go/v7/arrow/decimal128"
	"github.com/apache/arrow/go/v7/arrow/memory"
	"github.com/apache/arrow/go/v7/parquet"
	"github.com/apache/arrow/go/v7/parquet/pqarrow"

	"github.com/gcbaptista/go-voter-search/model"
)

// readParquet buffers the whole file, since parquet footers are read first.
func readParquet(ctx context.Context, r io.Reader, mem memory.Allocator) (*model.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	tbl, err := pqarrow.ReadTable(ctx, bytes.NewReader(data), parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, err
	}
	defer tbl.Release()

	numCols := int(tbl.NumCols())
	columns := make([]string, numCols)
	rows := make([]model.Record, tbl.NumRows())
	for i := range rows {
		rows[i] = make(model.Record, numCols)
	}

	for c := 0; c < numCols; c++ {
		col := tbl.Column(c)
		columns[c] = col.Name()
		if err := fillColumn(rows, col.Name(), col.Data().Chunks()); err != nil {
			return nil, err
		}
	}

	return model.NewTable(columns, rows), nil
}

// fillColumn copies the cells of one column, split across chunks, into rows.
func fillColumn(rows []model.Record, name string, chunks []arrow.Array) error {
	offset := 0
	for _, chunk := range chunks {
		if offset+chunk.Len() > len(rows) {
			return fmt.Errorf("column %q has more values than the table has rows", name)
		}
		for i := 0; i < chunk.Len(); i++ {
			v, err := cellValue(chunk, i)
			if err != nil {
				return fmt.Errorf("column %q: %w", name, err)
			}
			if v != nil {
				rows[offset+i][name] = v
			}
		}
		offset += chunk.Len()
	}
	return nil
}

// cellValue converts element i of an arrow array to a Go value. Nulls become nil.
// Types without a faithful conversion are an error rather than a silently dropped cell.
func cellValue(arr arrow.Array, i int) (interface{}, error) {
	if _, ok := arr.(*array.Null); ok || arr.IsNull(i) {
		return nil, nil
	}
	switch a := arr.(type) {
	case *array.String:
		return a.Value(i), nil
	case *array.Binary:
		return string(a.Value(i)), nil
	case *array.FixedSizeBinary:
		return string(a.Value(i)), nil
	case *array.Boolean:
		return a.Value(i), nil
	case *array.Int8:
		return int64(a.Value(i)), nil
	case *array.Int16:
		return int64(a.Value(i)), nil
	case *array.Int32:
		return int64(a.Value(i)), nil
	case *array.Int64:
		return a.Value(i), nil
	case *array.Uint8:
		return uint64(a.Value(i)), nil
	case *array.Uint16:
		return uint64(a.Value(i)), nil
	case *array.Uint32:
		return uint64(a.Value(i)), nil
	case *array.Uint64:
		return a.Value(i), nil
	case *array.Float32:
		return float64(a.Value(i)), nil
	case *array.Float64:
		return a.Value(i), nil
	case *array.Decimal128:
		dt := a.DataType().(*arrow.Decimal128Type)
		return formatDecimal(a.Value(i), dt.Scale), nil
	case *array.Date32:
		return a.Value(i).ToTime(), nil
	case *array.Date64:
		return a.Value(i).ToTime(), nil
	case *array.Timestamp:
		dt := a.DataType().(*arrow.TimestampType)
		return a.Value(i).ToTime(dt.Unit), nil
	case *array.Time32:
		dt := a.DataType().(*arrow.Time32Type)
		return a.Value(i).ToTime(dt.Unit).Format(timeOfDayLayout), nil
	case *array.Time64:
		dt := a.DataType().(*arrow.Time64Type)
		return a.Value(i).ToTime(dt.Unit).Format(timeOfDayLayout), nil
	default:
		return nil, fmt.Errorf("unsupported arrow type %s", arr.DataType())
	}
}

const timeOfDayLayout = "15:04:05.999999999"

// formatDecimal renders n with exactly scale fractional digits, e.g. 1250 at scale 2 is "12.50".
func formatDecimal(n decimal128.Num, scale int32) string {
	digits := n.BigInt()
	negative := digits.Sign() < 0
	s := new(strings.Builder)
	if negative {
		s.WriteByte('-')
	}
	abs := digits.Abs(digits).String()

	switch {
	case scale <= 0:
		s.WriteString(abs)
		if abs != "0" {
			s.WriteString(strings.Repeat("0", int(-scale)))
		}
	default:
		if pad := int(scale) + 1 - len(abs); pad > 0 {
			abs = strings.Repeat("0", pad) + abs
		}
		point := len(abs) - int(scale)
		s.WriteString(abs[:point])
		s.WriteByte('.')
		s.WriteString(abs[point:])
	}
	return s.String()
}
