// Package memory provides a process-local KeyValueStore, used by tests and
// by the CLI when nothing should touch disk.
package memory

import (
	"context"
	"sync"

	"midad/internal/domain"
	"midad/internal/port"
)

type store struct {
	mu    sync.RWMutex
	slots map[string]string
}

// New creates an empty in-memory KeyValueStore.
func New() port.KeyValueStore {
	return &store{slots: make(map[string]string)}
}

func (s *store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[key]
	if !ok {
		return "", domain.ErrSlotNotFound
	}
	return v, nil
}

func (s *store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = value
	return nil
}

func (s *store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}

func (s *store) Ping(_ context.Context) error { return nil }

func (s *store) Close() error { return nil }
