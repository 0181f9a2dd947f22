package history_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"midad/internal/domain"
	"midad/internal/history"
	"midad/internal/storage/memory"
	"midad/mocks"
)

func item(id string) domain.HistoryItem {
	return domain.HistoryItem{
		ID:        id,
		Timestamp: 1700000000000,
		Title:     "Item " + id,
		Data: domain.AnalysisResult{
			ActionPerformed: "summarize_and_quiz",
			DocumentSummary: "summary " + id,
			QuizData: &domain.QuizData{
				Title: "Quiz " + id,
				Questions: []domain.Question{
					{ID: 1, Question: "Q?", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "c", Explanation: "because"},
				},
			},
			Metadata: &domain.Metadata{WordCount: 42, Language: "en", ComplexityLevel: "Medium"},
		},
	}
}

func ids(items []domain.HistoryItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestStore_LoadEmpty(t *testing.T) {
	s := history.NewStore(memory.New(), 0)

	items := s.Load(context.Background())

	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, history.DefaultMaxItems, s.MaxItems())
}

func TestStore_AppendIsMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	s := history.NewStore(memory.New(), 0)

	_, err := s.Append(ctx, item("1"))
	require.NoError(t, err)
	got, err := s.Append(ctx, item("2"))
	require.NoError(t, err)

	assert.Equal(t, []string{"2", "1"}, ids(got))
	assert.Equal(t, []string{"2", "1"}, ids(s.Load(ctx)))
}

func TestStore_AppendTruncatesToMax(t *testing.T) {
	ctx := context.Background()
	s := history.NewStore(memory.New(), history.DefaultMaxItems)

	for i := 1; i <= 50; i++ {
		_, err := s.Append(ctx, item(fmt.Sprint(i)))
		require.NoError(t, err)
	}
	got, err := s.Append(ctx, item("new"))
	require.NoError(t, err)

	require.Len(t, got, 50)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "2", got[49].ID, "the oldest item is dropped")
	assert.NotContains(t, ids(got), "1")
	assert.Len(t, s.Load(ctx), 50)
}

func TestStore_RoundTripPreservesSnapshot(t *testing.T) {
	ctx := context.Background()
	s := history.NewStore(memory.New(), 0)
	want := item("abc")

	_, err := s.Append(ctx, want)
	require.NoError(t, err)

	loaded := s.Load(ctx)
	require.Len(t, loaded, 1)
	assert.Equal(t, want, loaded[0])
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	s := history.NewStore(memory.New(), 0)
	for _, id := range []string{"a", "b", "c"} {
		_, err := s.Append(ctx, item(id))
		require.NoError(t, err)
	}

	got, err := s.Remove(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, ids(got))
	assert.Equal(t, []string{"c", "a"}, ids(s.Load(ctx)))

	got, err = s.Remove(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, ids(got))
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()
	s := history.NewStore(memory.New(), 0)
	_, err := s.Append(ctx, item("x"))
	require.NoError(t, err)

	got, err := s.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "Item x", got.Title)

	_, err = s.Get(ctx, "y")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_CorruptStateLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.Set(ctx, history.SlotKey, "{not json"))
	s := history.NewStore(kv, 0)

	assert.Empty(t, s.Load(ctx))

	got, err := s.Append(ctx, item("fresh"))
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, ids(got))
}

func TestStore_NullStateLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.Set(ctx, history.SlotKey, "null"))

	items := history.NewStore(kv, 0).Load(ctx)

	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestStore_BackendFailure(t *testing.T) {
	ctx := context.Background()
	kv := new(mocks.MockKeyValueStore)
	kv.On("Get", mock.Anything, history.SlotKey).Return("", errors.New("connection reset"))
	s := history.NewStore(kv, 0)

	assert.Empty(t, s.Load(ctx), "load fails open")

	_, err := s.Append(ctx, item("a"))
	assert.Error(t, err)
	kv.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestStore_WriteFailure(t *testing.T) {
	ctx := context.Background()
	kv := new(mocks.MockKeyValueStore)
	kv.On("Get", mock.Anything, history.SlotKey).Return("[]", nil)
	kv.On("Set", mock.Anything, history.SlotKey, mock.Anything).Return(errors.New("disk full"))

	_, err := history.NewStore(kv, 0).Append(ctx, item("a"))

	assert.ErrorContains(t, err, "disk full")
}

func TestStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := history.NewStore(memory.New(), 100)
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Append(ctx, item(fmt.Sprint(i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Load(ctx), 20)
}

func TestNewItem(t *testing.T) {
	at := time.UnixMilli(1712345678901)
	result := item("x").Data

	got := history.NewItem(result, "biology.pdf", at)

	_, err := uuid.Parse(got.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1712345678901), got.Timestamp)
	assert.Equal(t, "Quiz x", got.Title)
	assert.Equal(t, result, got.Data)
}

func TestNewItem_UniqueIDs(t *testing.T) {
	a := history.NewItem(domain.AnalysisResult{}, "a.pdf", time.Now())
	b := history.NewItem(domain.AnalysisResult{}, "a.pdf", time.Now())

	assert.NotEqual(t, a.ID, b.ID)
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name   string
		result domain.AnalysisResult
		source string
		want   string
	}{
		{name: "quiz title wins", result: domain.AnalysisResult{QuizData: &domain.QuizData{Title: "Cells"}}, source: "x.pdf", want: "Cells"},
		{name: "no quiz", source: "lecture notes.pdf", want: "lecture notes"},
		{name: "blank quiz title", result: domain.AnalysisResult{QuizData: &domain.QuizData{Title: "  "}}, source: "scan.png", want: "scan"},
		{name: "only last extension", source: "archive.tar.gz", want: "archive.tar"},
		{name: "no extension", source: "README", want: "README"},
		{name: "path stripped", source: "/tmp/uploads/photo.jpeg", want: "photo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, history.Title(tt.result, tt.source))
		})
	}
}
