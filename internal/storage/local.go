package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore implements Store on a single flat directory. Each entry is
// exactly one uploaded file named <id>.<extension>; no sidecar metadata.
type LocalStore struct {
	dir string
}

// NewLocalStore ensures dir exists and returns a store rooted at it.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %q: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes prefix then the remaining stream to a newly created file.
// Creation is exclusive: an existing file under the same name yields
// ErrExists rather than being overwritten. Write errors propagate
// immediately and leave the partial file in place.
func (s *LocalStore) Save(ctx context.Context, name string, prefix []byte, r io.Reader) (int64, error) {
	path, err := s.path(name)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return 0, ErrExists
		}
		return 0, fmt.Errorf("create %q: %w", name, err)
	}
	defer f.Close()

	var written int64
	if len(prefix) > 0 {
		n, err := f.Write(prefix)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("write %q: %w", name, err)
		}
	}
	n, err := io.Copy(f, r)
	written += n
	if err != nil {
		return written, fmt.Errorf("write %q: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return written, fmt.Errorf("close %q: %w", name, err)
	}
	return written, nil
}

// Open returns the stored file and its modification time.
func (s *LocalStore) Open(ctx context.Context, name string) (io.ReadSeekCloser, time.Time, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, time.Time{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, time.Time{}, ErrNotFound
		}
		return nil, time.Time{}, fmt.Errorf("open %q: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, time.Time{}, fmt.Errorf("stat %q: %w", name, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, time.Time{}, ErrNotFound
	}
	return f, info.ModTime(), nil
}

// Remove deletes the stored file, mapping a missing file to ErrNotFound.
func (s *LocalStore) Remove(ctx context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove %q: %w", name, err)
	}
	return nil
}

// path resolves name inside the flat directory. Names that would escape it
// (path separators, relative components) are reported as not found.
func (s *LocalStore) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return "", ErrNotFound
	}
	return filepath.Join(s.dir, name), nil
}
