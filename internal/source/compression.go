package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies a whole-file compression wrapper, detected by file suffix.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionZstd Compression = ".zst"
	CompressionGzip Compression = ".gz"
	CompressionLZ4  Compression = ".lz4"
)

// DetectCompression returns the compression suffix of name and the name without it,
// e.g. "AC_101.parquet.zst" yields (CompressionZstd, "AC_101.parquet").
func DetectCompression(name string) (Compression, string) {
	lower := strings.ToLower(name)
	for _, c := range []Compression{CompressionZstd, CompressionGzip, CompressionLZ4} {
		if strings.HasSuffix(lower, string(c)) {
			return c, name[:len(name)-len(c)]
		}
	}
	return CompressionNone, name
}

// Decompress wraps rc with the decompressor matching name's suffix.
// It returns the wrapped reader and the name with the compression suffix removed.
// Closing the returned reader also closes rc.
func Decompress(name string, rc io.ReadCloser) (io.ReadCloser, string, error) {
	compression, inner := DetectCompression(name)

	switch compression {
	case CompressionZstd:
		dec, err := zstd.NewReader(rc)
		if err != nil {
			return nil, "", fmt.Errorf("zstd: %w", err)
		}
		return &wrappedReader{Reader: dec, close: func() error {
			dec.Close()
			return rc.Close()
		}}, inner, nil

	case CompressionGzip:
		gz, err := gzip.NewReader(rc)
		if err != nil {
			return nil, "", fmt.Errorf("gzip: %w", err)
		}
		return &wrappedReader{Reader: gz, close: func() error {
			_ = gz.Close()
			return rc.Close()
		}}, inner, nil

	case CompressionLZ4:
		return &wrappedReader{Reader: lz4.NewReader(rc), close: rc.Close}, inner, nil

	default:
		return rc, name, nil
	}
}

type wrappedReader struct {
	io.Reader
	close func() error
}

func (w *wrappedReader) Close() error {
	return w.close()
}
