// Package storage materializes uploaded streams and serves them back.
// Two backends implement Store: a flat local directory (the default) and
// any S3-compatible object store via the MinIO client. Swap backends by
// changing the concrete type injected at startup.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when no stored file exists under the given name.
var ErrNotFound = errors.New("file not found")

// ErrExists is returned by Save when the name is already taken, so the
// caller can pick a fresh name instead of overwriting.
var ErrExists = errors.New("file already exists")

// Store is the interface for persisting and retrieving uploads.
type Store interface {
	// Save creates a new file under name and writes prefix (bytes already
	// consumed upstream) followed by everything remaining in r, in order,
	// without buffering the whole stream. Returns the number of bytes
	// persisted. On any error the partial file is left in place; callers
	// must not assume cleanup.
	Save(ctx context.Context, name string, prefix []byte, r io.Reader) (int64, error)
	// Open streams a stored file back, together with its modification time.
	Open(ctx context.Context, name string) (io.ReadSeekCloser, time.Time, error)
	// Remove deletes the file stored under name.
	Remove(ctx context.Context, name string) error
}
