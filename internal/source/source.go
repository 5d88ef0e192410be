// Package source opens the raw bytes behind a partition's dataset identifier.
//
// A dataset identifier is either a path on the local file system, resolved against
// the configured base directory, or an object reference of the form
// s3://bucket/key or minio://bucket/key.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gcbaptista/go-voter-search/config"
)

// ErrNotFound is returned when the referenced file or object does not exist.
var ErrNotFound = os.ErrNotExist

const (
	schemeS3    = "s3"
	schemeMinIO = "minio"
)

// Opener opens a dataset reference for reading. The caller closes the returned reader.
type Opener interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

// Ref is a parsed dataset reference.
type Ref struct {
	Scheme string // "", "s3" or "minio"
	Bucket string
	Key    string
	Path   string // set for local references
}

// ParseRef splits an object reference into scheme, bucket and key.
// Anything without a recognised scheme is treated as a local path.
func ParseRef(ref string) (Ref, error) {
	for _, scheme := range []string{schemeS3, schemeMinIO} {
		rest, ok := strings.CutPrefix(ref, scheme+"://")
		if !ok {
			continue
		}
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Ref{}, fmt.Errorf("invalid %s reference %q: want %s://bucket/key", scheme, ref, scheme)
		}
		return Ref{Scheme: scheme, Bucket: bucket, Key: key}, nil
	}
	return Ref{Path: ref}, nil
}

// Router dispatches references to the opener for their scheme.
// A nil backend means references of that scheme cannot be opened.
type Router struct {
	Local Opener
	S3    Opener
	MinIO Opener
}

// Open implements Opener.
func (r *Router) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	parsed, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}

	var backend Opener
	switch parsed.Scheme {
	case schemeS3:
		backend = r.S3
	case schemeMinIO:
		backend = r.MinIO
	default:
		backend = r.Local
	}
	if backend == nil {
		name := parsed.Scheme
		if name == "" {
			name = "local"
		}
		return nil, fmt.Errorf("no %s backend configured for %q", name, ref)
	}
	return backend.Open(ctx, ref)
}

// NewRouter builds the openers the configured partitions need.
// Object-store clients are only created when some partition references them.
func NewRouter(ctx context.Context, settings *config.Settings) (*Router, error) {
	if settings == nil {
		return nil, errors.New("settings cannot be nil")
	}

	router := &Router{Local: NewLocalOpener(settings.Storage.BaseDir)}

	if settings.UsesScheme(schemeS3 + "://") {
		client, err := NewS3Client(ctx, settings.Storage.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 client: %w", err)
		}
		router.S3 = NewS3Opener(client)
	}

	if settings.UsesScheme(schemeMinIO + "://") {
		client, err := NewMinIOClient(settings.Storage.MinIO)
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		router.MinIO = NewMinIOOpener(client)
	}

	return router, nil
}
