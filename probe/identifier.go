package probe

import (
	"regexp"
	"strings"

	apperrors "github.com/kbukum/fileflow/errors"
)

// Scheme names.
const (
	SchemeLocal = "file"
	SchemeS3    = "s3"
)

var (
	s3Pattern     = regexp.MustCompile(`\As3://([^/]+)/(.+)\z`)
	schemePattern = regexp.MustCompile(`\A([A-Za-z][A-Za-z0-9+.-]*)://`)
)

// Identifier is a parsed file identifier.
type Identifier struct {
	Raw    string
	Scheme string
	Bucket string // s3 only
	Path   string // local path or object key
}

// Parse classifies id. It does not touch the filesystem or the network.
func Parse(id string) (Identifier, error) {
	if strings.TrimSpace(id) == "" {
		return Identifier{}, apperrors.MalformedIdentifier(id, "empty identifier")
	}

	m := schemePattern.FindStringSubmatch(id)
	if m == nil {
		return Identifier{Raw: id, Scheme: SchemeLocal, Path: id}, nil
	}

	switch strings.ToLower(m[1]) {
	case SchemeS3:
		parts := s3Pattern.FindStringSubmatch(id)
		if parts == nil {
			return Identifier{}, apperrors.MalformedIdentifier(id, "expected s3://bucket/key")
		}
		return Identifier{Raw: id, Scheme: SchemeS3, Bucket: parts[1], Path: parts[2]}, nil
	case SchemeLocal:
		path := strings.TrimPrefix(id, m[0])
		if path == "" {
			return Identifier{}, apperrors.MalformedIdentifier(id, "empty file path")
		}
		return Identifier{Raw: id, Scheme: SchemeLocal, Path: path}, nil
	default:
		return Identifier{}, apperrors.MalformedIdentifier(id, "unsupported scheme "+m[1])
	}
}
