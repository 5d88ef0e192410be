// Package loader materializes partition tables from their sources.
// The file format is chosen by extension after any compression suffix is removed.
package loader

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/apache/arrow/go/v7/arrow/memory"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-voter-search/internal/source"
	"github.com/gcbaptista/go-voter-search/model"
)

// Format identifies a table file format.
type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatJSONL   Format = "jsonl"
	FormatGob     Format = "gob"
)

// FormatOf returns the format of a reference by its extension.
func FormatOf(ref string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(ref), "."))
	switch ext {
	case "parquet", "pq":
		return FormatParquet, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "gob":
		return FormatGob, nil
	default:
		return "", fmt.Errorf("unsupported file format %q", ext)
	}
}

// Loader reads tables through an Opener. It implements services.Loader.
type Loader struct {
	opener    source.Opener
	allocator memory.Allocator
	logger    *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for per-file diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithAllocator sets the arrow allocator used while decoding parquet files.
func WithAllocator(allocator memory.Allocator) Option {
	return func(l *Loader) {
		if allocator != nil {
			l.allocator = allocator
		}
	}
}

// New creates a Loader.
func New(opener source.Opener, opts ...Option) *Loader {
	l := &Loader{
		opener:    opener,
		allocator: memory.NewGoAllocator(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load opens, decompresses and decodes the table behind id.
func (l *Loader) Load(ctx context.Context, id model.DatasetID) (*model.Table, error) {
	ref := string(id)

	_, inner := source.DetectCompression(ref)
	format, err := FormatOf(inner)
	if err != nil {
		return nil, err
	}

	raw, err := l.opener.Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	rc, _, err := source.Decompress(ref, raw)
	if err != nil {
		_ = raw.Close()
		return nil, err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil {
			l.logger.Warn("Failed to close dataset", zap.String("dataset", ref), zap.Error(closeErr))
		}
	}()

	table, err := l.decode(ctx, format, rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s as %s: %w", ref, format, err)
	}

	l.logger.Debug("Decoded dataset",
		zap.String("dataset", ref),
		zap.String("format", string(format)),
		zap.Int("columns", len(table.Columns)),
		zap.Int("rows", table.Len()))
	return table, nil
}

func (l *Loader) decode(ctx context.Context, format Format, r io.Reader) (*model.Table, error) {
	switch format {
	case FormatParquet:
		return readParquet(ctx, r, l.allocator)
	case FormatCSV:
		return readCSV(r)
	case FormatJSON, FormatJSONL:
		return readJSON(r)
	case FormatGob:
		return readGob(r)
	default:
		return nil, fmt.Errorf("unsupported file format %q", format)
	}
}
