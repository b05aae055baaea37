// Package local keeps attachments on the local filesystem, served by the
// admin API under /uploads.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type Store struct {
	Dir string
}

// New creates dir if needed
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory %s: %w", dir, err)
	}
	return &Store{Dir: dir}, nil
}

// Save writes data to Dir/name and returns that path
func (s *Store) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid media file name %q", name)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing media file: %w", err)
	}
	return path, nil
}
