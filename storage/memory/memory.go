// Package memory keeps objects in process memory. It backs dry runs and
// tests, and can be told to fail individual operations.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/iocapture/logger"
	"github.com/kbukum/iocapture/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderMemory, func(_ storage.Config, _ *logger.Logger) (storage.Storage, error) {
		return New(), nil
	})
}

// Op names an operation that can be made to fail.
type Op string

// Operations that can be made to fail.
const (
	OpCreate Op = "create"
	OpWrite  Op = "write"
	OpClose  Op = "close"
)

type object struct {
	data     []byte
	modified time.Time
}

// Storage implements storage.Storage in memory. Objects become visible when
// their writer is closed.
type Storage struct {
	mu       sync.Mutex
	objects  map[string]object
	failures map[string]error
	creates  int
}

// New creates an empty memory storage.
func New() *Storage {
	return &Storage{
		objects:  make(map[string]object),
		failures: make(map[string]error),
	}
}

// Fail makes op on path return err from now on.
func (s *Storage) Fail(op Op, path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[string(op)+":"+path] = err
}

func (s *Storage) failure(op Op, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[string(op)+":"+path]
}

// Bytes returns the committed content of path.
func (s *Storage) Bytes(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[path]
	return bytes.Clone(o.data), ok
}

// Creates returns how many objects have been created.
func (s *Storage) Creates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates
}

// Location returns "memory://".
func (s *Storage) Location() string { return "memory://" }

// Create starts a new object at path.
func (s *Storage) Create(_ context.Context, path string) (io.WriteCloser, error) {
	if err := s.failure(OpCreate, path); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", path, err)
	}
	s.mu.Lock()
	s.creates++
	s.mu.Unlock()
	return &writer{s: s, path: path}, nil
}

// Open returns a reader over the committed content of path.
func (s *Storage) Open(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := s.Bytes(path)
	if !ok {
		return nil, fmt.Errorf("storage: file not found: %s", path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Exists checks whether path has been committed.
func (s *Storage) Exists(_ context.Context, path string) (bool, error) {
	_, ok := s.Bytes(path)
	return ok, nil
}

// List returns the committed objects whose path starts with prefix.
func (s *Storage) List(_ context.Context, prefix string) ([]storage.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	files := []storage.FileInfo{}
	for path, o := range s.objects {
		if strings.HasPrefix(path, prefix) {
			files = append(files, storage.FileInfo{Path: path, Size: int64(len(o.data)), LastModified: o.modified})
		}
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

type writer struct {
	s      *Storage
	path   string
	buf    bytes.Buffer
	closed bool
}

func (w *writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("storage: write %s: already closed", w.path)
	}
	if err := w.s.failure(OpWrite, w.path); err != nil {
		return 0, fmt.Errorf("storage: write %s: %w", w.path, err)
	}
	return w.buf.Write(p)
}

func (w *writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.s.failure(OpClose, w.path); err != nil {
		return fmt.Errorf("storage: close %s: %w", w.path, err)
	}
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	w.s.objects[w.path] = object{data: bytes.Clone(w.buf.Bytes()), modified: time.Now()}
	return nil
}

// compile-time check
var _ storage.Storage = (*Storage)(nil)
