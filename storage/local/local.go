// Package local answers storage queries from the local filesystem.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/kbukum/fileflow/errors"
	"github.com/kbukum/fileflow/logger"
	"github.com/kbukum/fileflow/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(_ context.Context, cfg storage.Config, _ *logger.Logger) (storage.Storage, error) {
		return NewStorage(cfg.BasePath)
	})
}

// Storage implements storage.Storage using the local filesystem.
// Absolute paths are used as given; relative paths resolve against basePath.
type Storage struct {
	basePath string
}

// NewStorage creates a local filesystem storage rooted at basePath.
// An empty basePath means the working directory. The directory is not
// created: lookups never modify the filesystem.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return &Storage{}, nil
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	return &Storage{basePath: abs}, nil
}

func (s *Storage) resolve(path string) string {
	if s.basePath == "" || filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.basePath, path)
}

// Stat returns metadata for a readable local file or directory.
func (s *Storage) Stat(_ context.Context, path string) (*storage.FileInfo, error) {
	full := s.resolve(path)
	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.NotFound(path)
		}
		return nil, fmt.Errorf("storage: stat file: %w", err)
	}
	if !readable(full, info) {
		return nil, apperrors.NotFound("readable file", path).WithDetail("reason", "permission denied")
	}
	return &storage.FileInfo{
		Path:         path,
		Size:         info.Size(),
		LastModified: info.ModTime(),
	}, nil
}

// Exists checks whether a readable local file exists.
func (s *Storage) Exists(ctx context.Context, path string) (bool, error) {
	return storage.ExistsVia(ctx, s, path)
}

// Location returns the path as it resolves on disk.
func (s *Storage) Location(path string) string {
	return s.resolve(path)
}

// readable opens regular files to confirm read permission; an unreadable
// input counts as absent.
func readable(path string, info os.FileInfo) bool {
	if info.IsDir() {
		return true
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// compile-time check
var _ storage.Storage = (*Storage)(nil)
