package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"midad/internal/domain"
	"midad/internal/service"
)

// MockPreferenceService is a mock implementation of service.PreferenceService.
type MockPreferenceService struct {
	mock.Mock
}

func (m *MockPreferenceService) Get(ctx context.Context) domain.Preferences {
	args := m.Called(ctx)
	return args.Get(0).(domain.Preferences)
}

func (m *MockPreferenceService) Update(ctx context.Context, input *service.UpdatePreferencesInput) (domain.Preferences, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Preferences), args.Error(1)
}

func (m *MockPreferenceService) ToggleTheme(ctx context.Context) (domain.Preferences, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Preferences), args.Error(1)
}

func (m *MockPreferenceService) CycleLanguage(ctx context.Context) (domain.Preferences, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Preferences), args.Error(1)
}
