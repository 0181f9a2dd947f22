// Package history keeps the bounded, most-recent-first list of past analyses.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"midad/internal/domain"
	"midad/internal/port"
)

const (
	// SlotKey is the storage slot holding the serialized history.
	SlotKey = "midad_history"
	// DefaultMaxItems bounds the history length.
	DefaultMaxItems = 50
)

// Store persists history items in a single slot of a KeyValueStore.
// Read-modify-write cycles are serialised within the process only.
type Store struct {
	kv       port.KeyValueStore
	maxItems int
	mu       sync.Mutex
}

// NewStore creates a Store. maxItems <= 0 falls back to DefaultMaxItems.
func NewStore(kv port.KeyValueStore, maxItems int) *Store {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Store{kv: kv, maxItems: maxItems}
}

// MaxItems returns the retention bound.
func (s *Store) MaxItems() int {
	return s.maxItems
}

// Load returns the persisted history, most recent first. It never fails:
// missing, unreadable or corrupt state yields an empty list.
func (s *Store) Load(ctx context.Context) []domain.HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read(ctx)
	if err != nil {
		log.Printf("history.Store.Load: %v; starting empty", err)
		return []domain.HistoryItem{}
	}
	return items
}

// Append inserts item at the front, drops anything past MaxItems and persists
// the result in one write. The resulting list is returned.
func (s *Store) Append(ctx context.Context, item domain.HistoryItem) ([]domain.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readForUpdate(ctx)
	if err != nil {
		return nil, err
	}

	next := make([]domain.HistoryItem, 0, min(len(current)+1, s.maxItems))
	next = append(next, item)
	next = append(next, current...)
	if len(next) > s.maxItems {
		next = next[:s.maxItems]
	}

	if err := s.write(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Remove deletes the item with the given id. Unknown ids are a no-op and
// trigger no write.
func (s *Store) Remove(ctx context.Context, id string) ([]domain.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readForUpdate(ctx)
	if err != nil {
		return nil, err
	}

	next := make([]domain.HistoryItem, 0, len(current))
	for _, it := range current {
		if it.ID != id {
			next = append(next, it)
		}
	}
	if len(next) == len(current) {
		return current, nil
	}

	if err := s.write(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Get returns the item with the given id or domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*domain.HistoryItem, error) {
	for _, it := range s.Load(ctx) {
		if it.ID == id {
			return &it, nil
		}
	}
	return nil, domain.ErrNotFound
}

// readForUpdate treats corrupt state as empty so a damaged slot is replaced on
// the next write, but surfaces backend failures.
func (s *Store) readForUpdate(ctx context.Context) ([]domain.HistoryItem, error) {
	items, err := s.read(ctx)
	var corrupt *corruptError
	if errors.As(err, &corrupt) {
		log.Printf("history.Store: %v; overwriting", err)
		return []domain.HistoryItem{}, nil
	}
	return items, err
}

type corruptError struct{ err error }

func (e *corruptError) Error() string { return "corrupt history state: " + e.err.Error() }
func (e *corruptError) Unwrap() error { return e.err }

func (s *Store) read(ctx context.Context) ([]domain.HistoryItem, error) {
	raw, err := s.kv.Get(ctx, SlotKey)
	if errors.Is(err, domain.ErrSlotNotFound) {
		return []domain.HistoryItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var items []domain.HistoryItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &corruptError{err: err}
	}
	if items == nil {
		items = []domain.HistoryItem{}
	}
	return items, nil
}

func (s *Store) write(ctx context.Context, items []domain.HistoryItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := s.kv.Set(ctx, SlotKey, string(data)); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

// NewItem builds a history entry for a successful analysis of sourceName.
func NewItem(result domain.AnalysisResult, sourceName string, at time.Time) domain.HistoryItem {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return domain.HistoryItem{
		ID:        id.String(),
		Timestamp: at.UnixMilli(),
		Title:     Title(result, sourceName),
		Data:      result,
	}
}

// Title is the quiz title when present, else the file name without its last extension.
func Title(result domain.AnalysisResult, sourceName string) string {
	if result.QuizData != nil && strings.TrimSpace(result.QuizData.Title) != "" {
		return result.QuizData.Title
	}
	base := path.Base(strings.ReplaceAll(sourceName, "\\", "/"))
	if base == "." || base == "/" {
		return sourceName
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
