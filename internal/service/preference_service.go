package service

import (
	"context"

	"midad/internal/domain"
	"midad/internal/preference"
)

// UpdatePreferencesInput is the DTO for changing preferences. Nil fields are left unchanged.
type UpdatePreferencesInput struct {
	Theme    *string
	Language *string
}

// PreferenceService defines the preference management contract.
type PreferenceService interface {
	Get(ctx context.Context) domain.Preferences
	Update(ctx context.Context, input *UpdatePreferencesInput) (domain.Preferences, error)
	ToggleTheme(ctx context.Context) (domain.Preferences, error)
	CycleLanguage(ctx context.Context) (domain.Preferences, error)
}

type preferenceService struct {
	store *preference.Store
}

// NewPreferenceService creates a new PreferenceService implementation.
func NewPreferenceService(store *preference.Store) PreferenceService {
	return &preferenceService{store: store}
}

func (s *preferenceService) Get(ctx context.Context) domain.Preferences {
	return s.store.Get(ctx)
}

// Update validates both fields before writing either.
func (s *preferenceService) Update(ctx context.Context, input *UpdatePreferencesInput) (domain.Preferences, error) {
	if input.Theme != nil {
		if _, err := domain.ParseTheme(*input.Theme); err != nil {
			return domain.Preferences{}, err
		}
	}
	if input.Language != nil {
		if _, err := domain.ParseLanguage(*input.Language); err != nil {
			return domain.Preferences{}, err
		}
	}

	prefs := s.store.Get(ctx)
	var err error
	if input.Theme != nil {
		if prefs, err = s.store.SetTheme(ctx, *input.Theme); err != nil {
			return domain.Preferences{}, err
		}
	}
	if input.Language != nil {
		if prefs, err = s.store.SetLanguage(ctx, *input.Language); err != nil {
			return domain.Preferences{}, err
		}
	}
	return prefs, nil
}

func (s *preferenceService) ToggleTheme(ctx context.Context) (domain.Preferences, error) {
	return s.store.ToggleTheme(ctx)
}

func (s *preferenceService) CycleLanguage(ctx context.Context) (domain.Preferences, error) {
	return s.store.CycleLanguage(ctx)
}
