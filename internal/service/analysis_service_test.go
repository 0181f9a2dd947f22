package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"midad/internal/analyzer"
	"midad/internal/domain"
	"midad/internal/history"
	"midad/internal/normalizer"
	"midad/internal/port"
	"midad/internal/preference"
	"midad/internal/service"
	"midad/internal/storage/memory"
	"midad/mocks"
)

const modelJSON = "```json\n" + `{
  "action_performed": "summarize_and_quiz",
  "document_summary": "Mitochondria produce ATP.",
  "quiz_data": {"title": "Cell Energy", "questions": [
    {"id": 1, "question": "What is produced?", "options": ["ATP", "DNA", "RNA", "CO2"], "correct_answer": "ATP", "explanation": "Respiration."}
  ]},
  "metadata": {"word_count": 5, "language": "en", "complexity_level": "Easy"}
}` + "\n```"

type analysisFixture struct {
	gen     *mocks.MockGenerator
	kv      port.KeyValueStore
	history *history.Store
	prefs   *preference.Store
	svc     service.AnalysisService
}

func newAnalysisFixture() *analysisFixture {
	gen := new(mocks.MockGenerator)
	kv := memory.New()
	hs := history.NewStore(kv, 0)
	ps := preference.NewStore(kv)
	return &analysisFixture{
		gen:     gen,
		kv:      kv,
		history: hs,
		prefs:   ps,
		svc:     service.NewAnalysisService(analyzer.NewClient(gen), normalizer.New(), hs, ps, "mock"),
	}
}

func pdf(name, body string) domain.SourceFile {
	return domain.SourceFile{Name: name, MediaType: "application/pdf", Body: strings.NewReader(body)}
}

func TestAnalysisService_Analyze_Success(t *testing.T) {
	f := newAnalysisFixture()
	f.gen.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return in.Document.MediaType == "application/pdf" &&
			in.Document.PayloadBase64 == "JVBERg==" &&
			strings.Contains(in.SystemInstruction, "English")
	})).Return(modelJSON, nil).Once()

	out, err := f.svc.Analyze(context.Background(), &service.AnalyzeInput{
		File:     pdf("cells.pdf", "%PDF"),
		Language: domain.LanguageEnglish,
	})

	require.NoError(t, err)
	assert.True(t, out.Saved)
	assert.Equal(t, "Mitochondria produce ATP.", out.Result.DocumentSummary)
	assert.Equal(t, "Cell Energy", out.HistoryItem.Title)
	assert.ElementsMatch(t, []string{"ATP", "DNA", "RNA", "CO2"}, out.Result.QuizData.Questions[0].Options)

	items := f.history.Load(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, out.HistoryItem, items[0])
	f.gen.AssertExpectations(t)
}

func TestAnalysisService_Analyze_UsesStoredLanguage(t *testing.T) {
	f := newAnalysisFixture()
	_, err := f.prefs.SetLanguage(context.Background(), "fr")
	require.NoError(t, err)
	f.gen.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return strings.Contains(in.SystemInstruction, "French") &&
			strings.Contains(in.UserInstruction, "French")
	})).Return(modelJSON, nil).Once()

	_, err = f.svc.Analyze(context.Background(), &service.AnalyzeInput{File: pdf("a.pdf", "x")})

	require.NoError(t, err)
	f.gen.AssertExpectations(t)
}

func TestAnalysisService_Analyze_PromptOverride(t *testing.T) {
	f := newAnalysisFixture()
	f.gen.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return in.UserInstruction == "Only summarize chapter 2"
	})).Return(modelJSON, nil).Once()

	_, err := f.svc.Analyze(context.Background(), &service.AnalyzeInput{
		File:     pdf("a.pdf", "x"),
		Language: domain.LanguageArabic,
		Prompt:   "Only summarize chapter 2",
	})

	require.NoError(t, err)
	f.gen.AssertExpectations(t)
}

func TestAnalysisService_Analyze_CallNotCancelledWithCaller(t *testing.T) {
	f := newAnalysisFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.gen.On("Generate", mock.MatchedBy(func(c context.Context) bool {
		return c.Err() == nil
	}), mock.Anything).Return(modelJSON, nil).Once()

	out, err := f.svc.Analyze(ctx, &service.AnalyzeInput{File: pdf("a.pdf", "x"), Language: domain.LanguageEnglish})

	require.NoError(t, err)
	assert.True(t, out.Saved)
	f.gen.AssertExpectations(t)
}

func TestAnalysisService_Analyze_Failures(t *testing.T) {
	tests := []struct {
		name    string
		file    domain.SourceFile
		setup   func(gen *mocks.MockGenerator)
		wantErr error
	}{
		{
			name:    "unreadable file",
			file:    domain.SourceFile{Name: "bad.pdf", MediaType: "application/pdf", Body: iotest.ErrReader(errors.New("io"))},
			setup:   func(gen *mocks.MockGenerator) {},
			wantErr: domain.ErrEncoding,
		},
		{
			name: "missing credential",
			file: pdf("a.pdf", "x"),
			setup: func(gen *mocks.MockGenerator) {
				gen.On("Generate", mock.Anything, mock.Anything).Return("", fmt.Errorf("%w: no key", domain.ErrConfiguration))
			},
			wantErr: domain.ErrConfiguration,
		},
		{
			name: "empty provider answer",
			file: pdf("a.pdf", "x"),
			setup: func(gen *mocks.MockGenerator) {
				gen.On("Generate", mock.Anything, mock.Anything).Return("", fmt.Errorf("%w: empty", domain.ErrProvider))
			},
			wantErr: domain.ErrProvider,
		},
		{
			name: "prose instead of json",
			file: pdf("a.pdf", "x"),
			setup: func(gen *mocks.MockGenerator) {
				gen.On("Generate", mock.Anything, mock.Anything).Return("I'm sorry, I can't read that.", nil)
			},
			wantErr: domain.ErrMalformedResponse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAnalysisFixture()
			tt.setup(f.gen)

			out, err := f.svc.Analyze(context.Background(), &service.AnalyzeInput{File: tt.file, Language: domain.LanguageEnglish})

			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, domain.IsAnalysisFailure(err))
			assert.Empty(t, f.history.Load(context.Background()), "history must not change on failure")
		})
	}
}

func TestAnalysisService_Analyze_HistoryWriteFailureKeepsResult(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(modelJSON, nil)
	kv := new(mocks.MockKeyValueStore)
	kv.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrSlotNotFound)
	kv.On("Set", mock.Anything, history.SlotKey, mock.Anything).Return(errors.New("quota exceeded"))
	svc := service.NewAnalysisService(analyzer.NewClient(gen), normalizer.New(),
		history.NewStore(kv, 0), preference.NewStore(kv), "mock")

	out, err := svc.Analyze(context.Background(), &service.AnalyzeInput{File: pdf("a.pdf", "x"), Language: domain.LanguageEnglish})

	require.NoError(t, err)
	assert.False(t, out.Saved)
	assert.Equal(t, "Cell Energy", out.Result.QuizData.Title)
}
