// Package preference persists the theme and language choices.
package preference

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"midad/internal/domain"
	"midad/internal/port"
)

// Slot names shared with earlier web builds.
const (
	ThemeSlot    = "theme"
	LanguageSlot = "midad_language"
)

// Store reads and writes preferences through a KeyValueStore.
type Store struct {
	kv port.KeyValueStore
	mu sync.Mutex
}

// NewStore creates a preference Store.
func NewStore(kv port.KeyValueStore) *Store {
	return &Store{kv: kv}
}

// Get returns the stored preferences. Missing, unreadable or unknown values
// resolve to the defaults.
func (s *Store) Get(ctx context.Context) domain.Preferences {
	return domain.Preferences{
		Theme:    s.theme(ctx),
		Language: s.language(ctx),
	}
}

// SetTheme validates and stores the theme.
func (s *Store) SetTheme(ctx context.Context, theme string) (domain.Preferences, error) {
	t, err := domain.ParseTheme(theme)
	if err != nil {
		return domain.Preferences{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, ThemeSlot, string(t)); err != nil {
		return domain.Preferences{}, fmt.Errorf("saving theme: %w", err)
	}
	return domain.Preferences{Theme: t, Language: s.language(ctx)}, nil
}

// SetLanguage validates and stores the language.
func (s *Store) SetLanguage(ctx context.Context, lang string) (domain.Preferences, error) {
	l, err := domain.ParseLanguage(lang)
	if err != nil {
		return domain.Preferences{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, LanguageSlot, string(l)); err != nil {
		return domain.Preferences{}, fmt.Errorf("saving language: %w", err)
	}
	return domain.Preferences{Theme: s.theme(ctx), Language: l}, nil
}

// ToggleTheme flips light and dark.
func (s *Store) ToggleTheme(ctx context.Context) (domain.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.theme(ctx).Toggle()
	if err := s.kv.Set(ctx, ThemeSlot, string(t)); err != nil {
		return domain.Preferences{}, fmt.Errorf("saving theme: %w", err)
	}
	return domain.Preferences{Theme: t, Language: s.language(ctx)}, nil
}

// CycleLanguage advances ar -> en -> fr -> ar.
func (s *Store) CycleLanguage(ctx context.Context) (domain.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.language(ctx).Next()
	if err := s.kv.Set(ctx, LanguageSlot, string(l)); err != nil {
		return domain.Preferences{}, fmt.Errorf("saving language: %w", err)
	}
	return domain.Preferences{Theme: s.theme(ctx), Language: l}, nil
}

func (s *Store) theme(ctx context.Context) domain.Theme {
	t, err := domain.ParseTheme(s.read(ctx, ThemeSlot))
	if err != nil {
		return domain.DefaultTheme
	}
	return t
}

func (s *Store) language(ctx context.Context) domain.Language {
	l, err := domain.ParseLanguage(s.read(ctx, LanguageSlot))
	if err != nil {
		return domain.DefaultLanguage
	}
	return l
}

func (s *Store) read(ctx context.Context, slot string) string {
	v, err := s.kv.Get(ctx, slot)
	if err != nil {
		if !errors.Is(err, domain.ErrSlotNotFound) {
			log.Printf("preference.Store: reading %s: %v", slot, err)
		}
		return ""
	}
	return v
}
