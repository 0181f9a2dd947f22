package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"midad/internal/domain"
	"midad/internal/export"
	"midad/internal/service"
)

// MockHistoryService is a mock implementation of service.HistoryService.
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) List(ctx context.Context) []domain.HistoryItem {
	args := m.Called(ctx)
	return args.Get(0).([]domain.HistoryItem)
}

func (m *MockHistoryService) Get(ctx context.Context, id string) (*domain.HistoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HistoryItem), args.Error(1)
}

func (m *MockHistoryService) Remove(ctx context.Context, id string) ([]domain.HistoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryItem), args.Error(1)
}

func (m *MockHistoryService) CheckAnswer(ctx context.Context, input *service.CheckAnswerInput) (*domain.AnswerFeedback, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnswerFeedback), args.Error(1)
}

func (m *MockHistoryService) Export(ctx context.Context, format export.Format, w io.Writer) error {
	args := m.Called(ctx, format, w)
	return args.Error(0)
}
