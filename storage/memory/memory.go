// Package memory is an in-process storage backend. Tests use it to model
// files and their timestamps without touching the disk.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/fileflow/logger"
	"github.com/kbukum/fileflow/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderMemory, func(_ context.Context, _ storage.Config, _ *logger.Logger) (storage.Storage, error) {
		return New(), nil
	})
}

// Storage keeps object metadata in a map.
type Storage struct {
	mu    sync.RWMutex
	files map[string]storage.FileInfo
}

// New creates an empty in-memory storage.
func New() *Storage {
	return &Storage{files: make(map[string]storage.FileInfo)}
}

// Put records path as existing with the given modification time.
func (s *Storage) Put(path string, modTime time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = storage.FileInfo{Path: path, LastModified: modTime}
}

// Remove forgets path.
func (s *Storage) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
}

// Paths lists the stored paths in lexical order.
func (s *Storage) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Stat returns the recorded metadata for path.
func (s *Storage) Stat(_ context.Context, path string) (*storage.FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.files[path]
	if !ok {
		return nil, storage.NotFound(path)
	}
	return &info, nil
}

// Exists reports whether path was recorded.
func (s *Storage) Exists(ctx context.Context, path string) (bool, error) {
	return storage.ExistsVia(ctx, s, path)
}

// Location returns a mem:// URL for path.
func (s *Storage) Location(path string) string {
	return "mem://" + strings.TrimPrefix(path, "/")
}

// compile-time check
var _ storage.Storage = (*Storage)(nil)
