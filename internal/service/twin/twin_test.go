package twin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandevgo/twinbot/internal/core"
	"github.com/sandevgo/twinbot/internal/service/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEmbedder struct {
	EmbedFunc func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text)
	}
	return []float32{1, 0}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type mockRetriever struct {
	RetrieveFunc func(ctx context.Context, emb []float32, text string, windowDays int) (core.RetrievalResult, error)
}

func (m *mockRetriever) Retrieve(ctx context.Context, emb []float32, text string, windowDays int) (core.RetrievalResult, error) {
	return m.RetrieveFunc(ctx, emb, text, windowDays)
}

type mockGenerator struct {
	GenerateFunc func(ctx context.Context, req core.GenerateRequest) (string, error)
	last         core.GenerateRequest
}

func (m *mockGenerator) Generate(ctx context.Context, req core.GenerateRequest) (string, error) {
	m.last = req
	return m.GenerateFunc(ctx, req)
}

func fixedPlanner() *planner.Planner {
	now := time.Date(2026, time.October, 18, 15, 4, 0, 0, time.UTC)
	return planner.New(time.UTC, func() time.Time { return now })
}

func TestTwin_AskGroundsOnRetrievedDocuments(t *testing.T) {
	var gotWindow int
	retriever := &mockRetriever{
		RetrieveFunc: func(ctx context.Context, emb []float32, text string, windowDays int) (core.RetrievalResult, error) {
			gotWindow = windowDays
			return core.RetrievalResult{Documents: []core.ScoredDocument{
				{Document: core.Document{ID: "edu", Type: core.DocumentStatic, Content: "I study computer science."}, Score: 0.52},
				{Document: core.Document{ID: "calendar_1", Type: core.DocumentCalendar, Content: "Event: Algorithms"}, Score: 0.31},
			}}, nil
		},
	}
	gen := &mockGenerator{GenerateFunc: func(ctx context.Context, req core.GenerateRequest) (string, error) {
		return "I study computer science. I've got Algorithms on Tuesday.", nil
	}}

	tw := New(&mockEmbedder{}, retriever, fixedPlanner(), gen, nil, "persona")
	answer, err := tw.Ask(context.Background(), "What do I study?", nil)
	require.NoError(t, err)

	assert.Equal(t, planner.DefaultWindowDays, gotWindow)
	assert.Equal(t, "persona", gen.last.SystemPrompt)
	assert.Equal(t, "What do I study?", gen.last.Query)
	assert.Contains(t, gen.last.Context, "Current date and time: Sunday, October 18, 2026 at 03:04 PM")
	assert.Contains(t, gen.last.Context, "[Source 1 - static]\nI study computer science.\n")
	assert.Contains(t, gen.last.Context, "[Source 2 - calendar]\nEvent: Algorithms\n")

	// 0.52 top score, two documents, mixed sources.
	assert.Equal(t, 0.95, answer.Confidence)
	assert.Equal(t, []string{"I study computer science. I've got Algorithms on Tuesday."}, answer.Chunks)
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, core.DocumentStatic, answer.Sources[0].Type)
	assert.Equal(t, "I study computer science....", answer.Sources[0].Preview)
}

func TestTwin_AskEmptyCorpus(t *testing.T) {
	retriever := &mockRetriever{
		RetrieveFunc: func(ctx context.Context, emb []float32, text string, windowDays int) (core.RetrievalResult, error) {
			return core.RetrievalResult{}, nil
		},
	}
	gen := &mockGenerator{GenerateFunc: func(ctx context.Context, req core.GenerateRequest) (string, error) {
		return "I don't have that info.", nil
	}}

	tw := New(&mockEmbedder{}, retriever, fixedPlanner(), gen, nil, "persona")
	answer, err := tw.Ask(context.Background(), "What's my favourite colour?", nil)
	require.NoError(t, err)

	assert.Contains(t, gen.last.Context, NoDataMarker)
	assert.Equal(t, 0.1, answer.Confidence)
	assert.Empty(t, answer.Sources)
}

func TestTwin_AskTrimsHistory(t *testing.T) {
	retriever := &mockRetriever{
		RetrieveFunc: func(ctx context.Context, emb []float32, text string, windowDays int) (core.RetrievalResult, error) {
			return core.RetrievalResult{}, nil
		},
	}
	gen := &mockGenerator{GenerateFunc: func(ctx context.Context, req core.GenerateRequest) (string, error) {
		return "ok", nil
	}}

	history := make([]core.Message, 10)
	for i := range history {
		history[i] = core.Message{Role: core.RoleUser, Content: string(rune('a' + i))}
	}

	tw := New(&mockEmbedder{}, retriever, fixedPlanner(), gen, nil, "persona")
	_, err := tw.Ask(context.Background(), "hi", history)
	require.NoError(t, err)

	require.Len(t, gen.last.History, MaxHistoryTurns)
	assert.Equal(t, "e", gen.last.History[0].Content)
	assert.Equal(t, "j", gen.last.History[5].Content)
}

func TestTwin_AskUsesExtendedWindow(t *testing.T) {
	var gotWindow int
	retriever := &mockRetriever{
		RetrieveFunc: func(ctx context.Context, emb []float32, text string, windowDays int) (core.RetrievalResult, error) {
			gotWindow = windowDays
			return core.RetrievalResult{}, nil
		},
	}
	gen := &mockGenerator{GenerateFunc: func(ctx context.Context, req core.GenerateRequest) (string, error) {
		return "ok", nil
	}}

	tw := New(&mockEmbedder{}, retriever, fixedPlanner(), gen, nil, "persona")
	_, err := tw.Ask(context.Background(), "What am I doing next month?", nil)
	require.NoError(t, err)
	assert.Equal(t, planner.ExtendedWindowDays, gotWindow)
}

func TestTwin_AskErrors(t *testing.T) {
	okRetriever := &mockRetriever{
		RetrieveFunc: func(ctx context.Context, emb []float32, text string, windowDays int) (core.RetrievalResult, error) {
			return core.RetrievalResult{}, nil
		},
	}
	providerErr := core.NewProviderError("openai", "chat", errors.New("503"))

	tests := []struct {
		name      string
		embedder  *mockEmbedder
		retriever *mockRetriever
		genErr    error
		wantMsg   string
		provider  bool
	}{
		{
			name: "embedding failure",
			embedder: &mockEmbedder{EmbedFunc: func(ctx context.Context, text string) ([]float32, error) {
				return nil, core.NewProviderError("embeddings", "embed", errors.New("timeout"))
			}},
			retriever: okRetriever,
			wantMsg:   "embed query",
			provider:  true,
		},
		{
			name:     "dimension mismatch",
			embedder: &mockEmbedder{},
			retriever: &mockRetriever{
				RetrieveFunc: func(ctx context.Context, emb []float32, text string, windowDays int) (core.RetrievalResult, error) {
					return core.RetrievalResult{}, core.ErrDimensionMismatch
				},
			},
			wantMsg: "retrieve",
		},
		{
			name:      "generation failure",
			embedder:  &mockEmbedder{},
			retriever: okRetriever,
			genErr:    providerErr,
			wantMsg:   "generate",
			provider:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{GenerateFunc: func(ctx context.Context, req core.GenerateRequest) (string, error) {
				return "unused", tt.genErr
			}}
			tw := New(tt.embedder, tt.retriever, fixedPlanner(), gen, nil, "persona")

			_, err := tw.Ask(context.Background(), "hello", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, tt.provider, core.IsProviderError(err))
		})
	}
}
