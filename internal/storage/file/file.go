// Package file stores each slot as its own file under a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"midad/internal/domain"
	"midad/internal/port"
)

type store struct {
	dir string
}

// New creates a file-backed KeyValueStore rooted at dir, creating it if needed.
func New(dir string) (port.KeyValueStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: creating %s: %w", dir, err)
	}
	return &store{dir: dir}, nil
}

func (s *store) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".slot")
}

func (s *store) Get(_ context.Context, key string) (string, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", domain.ErrSlotNotFound
	}
	if err != nil {
		return "", fmt.Errorf("file store: reading %s: %w", key, err)
	}
	return string(data), nil
}

// Set writes through a temp file and rename so readers never see a partial slot.
func (s *store) Set(_ context.Context, key, value string) error {
	tmp, err := os.CreateTemp(s.dir, ".slot-*")
	if err != nil {
		return fmt.Errorf("file store: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("file store: writing %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("file store: syncing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store: closing %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		return fmt.Errorf("file store: replacing %s: %w", key, err)
	}
	return nil
}

func (s *store) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("file store: deleting %s: %w", key, err)
	}
	return nil
}

func (s *store) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("file store: %s is not a directory", s.dir)
	}
	return nil
}

func (s *store) Close() error { return nil }
