package service

import (
	"context"
	"log"
	"time"

	"midad/internal/analyzer"
	"midad/internal/domain"
	"midad/internal/encoder"
	"midad/internal/history"
	"midad/internal/metrics"
	"midad/internal/normalizer"
	"midad/internal/preference"
)

// AnalyzeInput is the DTO for analyzing one uploaded document.
type AnalyzeInput struct {
	File domain.SourceFile
	// Language is optional; the stored preference is used when empty.
	Language domain.Language
	// Prompt optionally replaces the default user instruction.
	Prompt string
}

// AnalyzeOutput is the result of a successful analysis.
type AnalyzeOutput struct {
	Result      *domain.AnalysisResult `json:"result" yaml:"result"`
	HistoryItem domain.HistoryItem     `json:"history_item" yaml:"history_item"`
	// Saved is false when the history write failed; the result is still valid.
	Saved bool `json:"saved" yaml:"saved"`
}

// AnalysisService defines the document analysis contract.
type AnalysisService interface {
	Analyze(ctx context.Context, input *AnalyzeInput) (*AnalyzeOutput, error)
}

type analysisService struct {
	client     *analyzer.Client
	normalizer *normalizer.Normalizer
	history    *history.Store
	prefs      *preference.Store
	provider   string
	now        func() time.Time
}

// NewAnalysisService creates a new AnalysisService implementation.
// provider labels metrics and log lines.
func NewAnalysisService(
	client *analyzer.Client,
	norm *normalizer.Normalizer,
	historyStore *history.Store,
	prefStore *preference.Store,
	provider string,
) AnalysisService {
	return &analysisService{
		client:     client,
		normalizer: norm,
		history:    historyStore,
		prefs:      prefStore,
		provider:   provider,
		now:        time.Now,
	}
}

// Analyze runs encode, one model call and normalization, then records the
// result in history. Nothing is written when any step fails. The model call
// and the history write are detached from ctx cancellation: once issued, a
// call runs to completion even if the caller goes away.
func (s *analysisService) Analyze(ctx context.Context, input *AnalyzeInput) (*AnalyzeOutput, error) {
	started := s.now()

	lang := input.Language
	if lang == "" {
		lang = s.prefs.Get(ctx).Language
	}

	result, err := s.run(ctx, input, lang)
	if err != nil {
		kind := domain.FailureKind(err)
		metrics.ObserveAnalysis(s.provider, started, kindOrUnknown(kind))
		log.Printf("analysisService.Analyze: %s analysis of %q failed (%s): %v", s.provider, input.File.Name, kindOrUnknown(kind), err)
		return nil, err
	}
	metrics.ObserveAnalysis(s.provider, started, "")

	item := history.NewItem(*result, input.File.Name, s.now())
	out := &AnalyzeOutput{Result: result, HistoryItem: item}

	items, err := s.history.Append(context.WithoutCancel(ctx), item)
	if err != nil {
		log.Printf("analysisService.Analyze: failed to save history item %s: %v", item.ID, err)
		return out, nil
	}
	out.Saved = true
	metrics.HistoryItems.Set(float64(len(items)))

	log.Printf("analysisService.Analyze: %q analyzed in %s as %s (history size %d)",
		input.File.Name, s.now().Sub(started).Round(time.Millisecond), item.ID, len(items))
	return out, nil
}

func (s *analysisService) run(ctx context.Context, input *AnalyzeInput, lang domain.Language) (*domain.AnalysisResult, error) {
	doc, err := encoder.Encode(input.File)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.Analyze(context.WithoutCancel(ctx), *doc, lang, input.Prompt)
	if err != nil {
		return nil, err
	}

	return s.normalizer.Normalize(raw)
}

func kindOrUnknown(kind string) string {
	if kind == "" {
		return "unknown"
	}
	return kind
}
