package media

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FS reads <dir>/<book_key>.png.
type FS struct {
	dir string
}

func NewFS(dir string) *FS {
	if dir == "" {
		dir = "data/media"
	}
	return &FS{dir: dir}
}

func (s *FS) path(bookKey int64) string {
	return filepath.Join(s.dir, fileName(bookKey))
}

func (s *FS) Exists(_ context.Context, bookKey int64) (bool, error) {
	st, err := os.Stat(s.path(bookKey))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !st.IsDir(), nil
}

func (s *FS) Open(_ context.Context, bookKey int64) (io.ReadCloser, error) {
	f, err := os.Open(s.path(bookKey))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}
