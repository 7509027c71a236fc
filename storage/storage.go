package storage

import (
	"context"
	"time"

	apperrors "github.com/kbukum/fileflow/errors"
)

// FileInfo contains metadata about a stored object.
type FileInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
}

// Storage is the read-only view of a backend that the probe needs.
type Storage interface {
	// Stat returns metadata for the object at path. A missing object yields
	// an error for which IsNotFound reports true.
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Exists checks whether an object exists at the given path.
	Exists(ctx context.Context, path string) (bool, error)

	// Location renders path the way users refer to it, e.g. s3://bucket/key.
	Location(path string) string
}

// NotFound builds the error backends return for a missing object.
func NotFound(location string) error {
	return apperrors.NotFound("file", location)
}

// IsNotFound reports whether err means the object does not exist.
func IsNotFound(err error) bool {
	return apperrors.HasCode(err, apperrors.ErrCodeNotFound)
}

// ExistsVia implements Exists on top of Stat.
func ExistsVia(ctx context.Context, s Storage, path string) (bool, error) {
	_, err := s.Stat(ctx, path)
	switch {
	case err == nil:
		return true, nil
	case IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}
