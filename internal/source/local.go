package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalOpener opens files relative to a root directory. Absolute paths are used as-is.
type LocalOpener struct {
	root string
}

// NewLocalOpener creates a LocalOpener rooted at the given directory.
func NewLocalOpener(root string) *LocalOpener {
	return &LocalOpener{root: root}
}

// Path resolves ref against the root directory.
func (o *LocalOpener) Path(ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(o.root, ref)
}

// Open implements Opener.
func (o *LocalOpener) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(o.Path(ref))
}
