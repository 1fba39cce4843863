package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo contains metadata about a stored object.
type FileInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
}

// Storage defines the append-only object operations channels need.
type Storage interface {
	// Create starts a new object at path, replacing any previous one. Data
	// written is durable once the returned writer has been closed.
	Create(ctx context.Context, path string) (io.WriteCloser, error)

	// Open returns a reader for the object at path.
	// The caller is responsible for closing the returned ReadCloser.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists checks whether an object exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns metadata for all objects whose path starts with prefix,
	// sorted by path.
	List(ctx context.Context, prefix string) ([]FileInfo, error)

	// Location describes where objects are stored (a folder or bucket URL).
	Location() string
}
