package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"midad/internal/domain"
	"midad/internal/export"
	"midad/internal/history"
	"midad/internal/metrics"
)

// CheckAnswerInput is the DTO for grading one quiz answer from history.
type CheckAnswerInput struct {
	HistoryID  string
	QuestionID int
	Answer     string
}

// HistoryService defines the history browsing contract.
type HistoryService interface {
	List(ctx context.Context) []domain.HistoryItem
	Get(ctx context.Context, id string) (*domain.HistoryItem, error)
	Remove(ctx context.Context, id string) ([]domain.HistoryItem, error)
	CheckAnswer(ctx context.Context, input *CheckAnswerInput) (*domain.AnswerFeedback, error)
	Export(ctx context.Context, format export.Format, w io.Writer) error
}

type historyService struct {
	store *history.Store
}

// NewHistoryService creates a new HistoryService implementation.
func NewHistoryService(store *history.Store) HistoryService {
	return &historyService{store: store}
}

func (s *historyService) List(ctx context.Context) []domain.HistoryItem {
	items := s.store.Load(ctx)
	metrics.HistoryItems.Set(float64(len(items)))
	return items
}

func (s *historyService) Get(ctx context.Context, id string) (*domain.HistoryItem, error) {
	return s.store.Get(ctx, id)
}

// Remove deletes an item. Removing an unknown id succeeds.
func (s *historyService) Remove(ctx context.Context, id string) ([]domain.HistoryItem, error) {
	items, err := s.store.Remove(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("removing history item %s: %w", id, err)
	}
	metrics.HistoryItems.Set(float64(len(items)))
	log.Printf("historyService.Remove: history item %s removed (%d remain)", id, len(items))
	return items, nil
}

// CheckAnswer grades an answer against a question of a stored analysis.
func (s *historyService) CheckAnswer(ctx context.Context, input *CheckAnswerInput) (*domain.AnswerFeedback, error) {
	item, err := s.store.Get(ctx, input.HistoryID)
	if err != nil {
		return nil, err
	}
	q, ok := item.Question(input.QuestionID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	fb := q.Check(input.Answer)
	if fb.Status == domain.AnswerNoCorrectAnswer {
		log.Printf("historyService.CheckAnswer: item %s question %d has no answer key among its options", item.ID, q.ID)
	}
	return &fb, nil
}

func (s *historyService) Export(ctx context.Context, format export.Format, w io.Writer) error {
	items := s.store.Load(ctx)
	if err := export.Write(w, format, items); err != nil {
		return fmt.Errorf("exporting history as %s: %w", format, err)
	}
	return nil
}
