package retrieval

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/sandevgo/twinbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCorpus struct {
	loadFunc func(ctx context.Context, windowDays int) ([]core.Document, error)
	windows  []int
}

func (m *mockCorpus) Load(ctx context.Context, windowDays int) ([]core.Document, error) {
	m.windows = append(m.windows, windowDays)
	if m.loadFunc != nil {
		return m.loadFunc(ctx, windowDays)
	}
	return nil, nil
}

func staticCorpus(docs ...core.Document) *mockCorpus {
	return &mockCorpus{
		loadFunc: func(ctx context.Context, windowDays int) ([]core.Document, error) {
			return docs, nil
		},
	}
}

func TestRetrieve_GraduationScenario(t *testing.T) {
	corpus := staticCorpus(
		core.Document{ID: "edu", Type: core.DocumentStatic, Content: "Graduates May 2026", Embedding: []float32{1, 0, 0}},
		core.Document{
			ID: "cal", Type: core.DocumentCalendar, Content: "Event: Algorithms, Tuesday",
			Embedding: []float32{0, 1, 0}, Date: time.Date(2026, 10, 20, 12, 30, 0, 0, time.UTC),
		},
	)

	res, err := New(corpus).Retrieve(context.Background(), []float32{0.9, 0.1, 0}, "When do I graduate?", 14)
	require.NoError(t, err)

	require.Len(t, res.Documents, 1)
	assert.Equal(t, "edu", res.Documents[0].ID)
	assert.GreaterOrEqual(t, res.Documents[0].Score, 0.3)
	assert.Equal(t, 1, res.Documents[0].KeywordMatches)
	assert.False(t, res.Temporal)
	assert.Equal(t, 0.3, res.Threshold)
	assert.Equal(t, 7, res.Limit)
	assert.Equal(t, []int{14}, corpus.windows)
}

func TestRetrieve_EmptyCorpus(t *testing.T) {
	res, err := New(staticCorpus()).Retrieve(context.Background(), []float32{1, 0}, "anything", 14)
	require.NoError(t, err)
	assert.Empty(t, res.Documents)
}

func TestRetrieve_DataUnavailableIsEmpty(t *testing.T) {
	corpus := &mockCorpus{
		loadFunc: func(ctx context.Context, windowDays int) ([]core.Document, error) {
			return nil, core.ErrDataUnavailable
		},
	}
	res, err := New(corpus).Retrieve(context.Background(), []float32{1, 0}, "anything", 14)
	require.NoError(t, err)
	assert.Empty(t, res.Documents)
}

func TestRetrieve_LoadError(t *testing.T) {
	corpus := &mockCorpus{
		loadFunc: func(ctx context.Context, windowDays int) ([]core.Document, error) {
			return nil, errors.New("boom")
		},
	}
	_, err := New(corpus).Retrieve(context.Background(), []float32{1, 0}, "anything", 14)
	require.Error(t, err)
}

func TestRank_DimensionMismatch(t *testing.T) {
	docs := []core.Document{{ID: "a", Embedding: []float32{1, 0, 0}}}
	_, err := Rank(docs, []float32{1, 0}, "query", 14)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestRank_ScoreComponents(t *testing.T) {
	docs := []core.Document{
		{ID: "cal", Type: core.DocumentCalendar, Content: "Event: Senior Design meeting", Embedding: []float32{1, 0}},
		{ID: "fact", Type: core.DocumentStatic, Content: "Led the senior design team", Embedding: []float32{1, 0}},
	}

	res, err := Rank(docs, []float32{1, 0}, "When is my senior design meeting?", 14)
	require.NoError(t, err)
	require.True(t, res.Temporal)
	require.Len(t, res.Documents, 2)

	// keywords: when, senior, design, meeting
	byID := map[string]core.ScoredDocument{}
	for _, d := range res.Documents {
		byID[d.ID] = d
	}
	assert.Equal(t, 3, byID["cal"].KeywordMatches)
	assert.InDelta(t, 1+0.06+0.01, byID["cal"].Score, 1e-9)
	assert.Equal(t, 2, byID["fact"].KeywordMatches)
	assert.InDelta(t, 1+0.04, byID["fact"].Score, 1e-9)
	assert.Equal(t, "cal", res.Documents[0].ID)
}

func TestRank_StableTies(t *testing.T) {
	var docs []core.Document
	for i := 0; i < 5; i++ {
		docs = append(docs, core.Document{ID: fmt.Sprintf("d%d", i), Type: core.DocumentStatic, Content: "same", Embedding: []float32{1, 1}})
	}
	res, err := Rank(docs, []float32{1, 1}, "nothing relevant", 14)
	require.NoError(t, err)
	require.Len(t, res.Documents, 5)
	for i, d := range res.Documents {
		assert.Equal(t, fmt.Sprintf("d%d", i), d.ID)
	}
}

func TestPolicy(t *testing.T) {
	tests := []struct {
		name          string
		temporal      bool
		windowDays    int
		wantThreshold float64
		wantLimit     int
	}{
		{name: "plain", temporal: false, windowDays: 14, wantThreshold: 0.3, wantLimit: 7},
		{name: "temporal", temporal: true, windowDays: 14, wantThreshold: 0.2, wantLimit: 20},
		{name: "extended plain", temporal: false, windowDays: 60, wantThreshold: 0.3, wantLimit: 30},
		{name: "extended temporal", temporal: true, windowDays: 60, wantThreshold: 0.2, wantLimit: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			threshold, limit := Policy(tt.temporal, tt.windowDays)
			assert.Equal(t, tt.wantThreshold, threshold)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestRank_OrderingThresholdAndCap(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	queries := []string{"What is my background?", "What do I have on Tuesday?"}

	for round := 0; round < 20; round++ {
		var docs []core.Document
		n := rnd.Intn(60)
		for i := 0; i < n; i++ {
			typ := core.DocumentStatic
			if rnd.Intn(2) == 0 {
				typ = core.DocumentCalendar
			}
			docs = append(docs, core.Document{
				ID:        fmt.Sprintf("doc-%d", i),
				Type:      typ,
				Content:   "background notes for tuesday",
				Embedding: []float32{rnd.Float32(), rnd.Float32(), rnd.Float32()},
			})
		}

		for _, q := range queries {
			for _, window := range []int{14, 60} {
				res, err := Rank(docs, []float32{rnd.Float32(), rnd.Float32(), rnd.Float32()}, q, window)
				require.NoError(t, err)
				assert.LessOrEqual(t, len(res.Documents), res.Limit)
				for i, d := range res.Documents {
					assert.GreaterOrEqual(t, d.Score, res.Threshold)
					if i > 0 {
						assert.LessOrEqual(t, d.Score, res.Documents[i-1].Score)
					}
				}
			}
		}
	}
}
