package eval

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sandevgo/twinbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAsker struct {
	AskFunc func(ctx context.Context, query string, history []core.Message) (core.Answer, error)
}

func (m *mockAsker) Ask(ctx context.Context, query string, history []core.Message) (core.Answer, error) {
	return m.AskFunc(ctx, query, history)
}

func withSources(n int) []core.Source {
	return make([]core.Source, n)
}

func TestEvaluate(t *testing.T) {
	graduation := Case{
		Name: "grad", Category: "factual",
		ExpectedTopics:    []string{"May", "2026"},
		ShouldNotContain:  []string{"2027"},
		MinimumConfidence: 0.75,
	}
	skills := Case{
		Name: "skills", Category: "factual",
		ExpectedTopics:    []string{"Python", "Go", "TypeScript", "SQL"},
		MinimumConfidence: 0.6,
	}
	unknown := Case{
		Name: "color", Category: HallucinationCategory,
		ExpectedTopics:   []string{"don't", "not sure"},
		ShouldNotContain: []string{"blue"},
	}

	tests := []struct {
		name   string
		c      Case
		answer core.Answer
		want   bool
	}{
		{
			name:   "all topics, enough confidence",
			c:      graduation,
			answer: core.Answer{Text: "I graduate in May 2026.", Confidence: 0.8, Sources: withSources(1)},
			want:   true,
		},
		{
			name:   "two topics need full coverage",
			c:      graduation,
			answer: core.Answer{Text: "I graduate in May.", Confidence: 0.8, Sources: withSources(1)},
		},
		{
			name:   "forbidden term",
			c:      graduation,
			answer: core.Answer{Text: "May 2026, or maybe 2027.", Confidence: 0.8, Sources: withSources(1)},
		},
		{
			name:   "confidence below minimum",
			c:      graduation,
			answer: core.Answer{Text: "May 2026", Confidence: 0.6, Sources: withSources(1)},
		},
		{
			name:   "no sources",
			c:      graduation,
			answer: core.Answer{Text: "May 2026", Confidence: 0.9},
		},
		{
			name:   "half coverage suffices beyond two topics",
			c:      skills,
			answer: core.Answer{Text: "Mostly python and go.", Confidence: 0.75, Sources: withSources(2)},
			want:   true,
		},
		{
			name:   "hallucination test passes without sources when admitting",
			c:      unknown,
			answer: core.Answer{Text: "Not sure, I don't have that info.", Confidence: 0.1},
			want:   true,
		},
		{
			name:   "hallucination test fails on invention",
			c:      unknown,
			answer: core.Answer{Text: "Not sure, maybe blue? I don't know.", Confidence: 0.1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.c, tt.answer).Passed)
		})
	}
}

func TestEvaluate_Coverage(t *testing.T) {
	r := Evaluate(Case{ExpectedTopics: []string{"a", "b", "c", "d"}}, core.Answer{Text: "A and C"})
	assert.Equal(t, 0.5, r.TopicCoverage)
	assert.Equal(t, []string{"a", "c"}, r.TopicsFound)

	r = Evaluate(Case{}, core.Answer{Text: "anything"})
	assert.Equal(t, 1.0, r.TopicCoverage)
}

func TestHarness_Run(t *testing.T) {
	asker := &mockAsker{AskFunc: func(ctx context.Context, query string, history []core.Message) (core.Answer, error) {
		assert.Nil(t, history)
		switch query {
		case "grad":
			return core.Answer{Text: "May 2026", Confidence: 0.9, Sources: withSources(2)}, nil
		case "color":
			return core.Answer{Text: "It's blue", Confidence: 0.3}, nil
		default:
			return core.Answer{}, errors.New("provider down")
		}
	}}

	cases := []Case{
		{Name: "grad", Query: "grad", Category: "factual", ExpectedTopics: []string{"May"}, MinimumConfidence: 0.5},
		{Name: "color", Query: "color", Category: HallucinationCategory, ExpectedTopics: []string{"don't"}, ShouldNotContain: []string{"blue"}},
		{Name: "broken", Query: "broken", Category: "factual"},
	}

	var seen []string
	rep := NewHarness(asker).Run(context.Background(), cases, func(r Result) { seen = append(seen, r.Case.Name) })

	assert.Equal(t, []string{"grad", "color", "broken"}, seen)
	assert.Equal(t, 3, rep.Total)
	assert.Equal(t, 1, rep.Passed)
	assert.Equal(t, 2, rep.Failed)
	assert.InDelta(t, 1.0/3, rep.SuccessRate(), 1e-9)
	require.Len(t, rep.Categories, 2)
	assert.Equal(t, CategoryStats{Name: "factual", Passed: 1, Total: 2}, rep.Categories[0])
	assert.Equal(t, CategoryStats{Name: HallucinationCategory, Passed: 0, Total: 1}, rep.Categories[1])

	// averages over the two answered cases
	assert.InDelta(t, 0.6, rep.AvgConfidence, 1e-9)
	assert.InDelta(t, 0.5, rep.AvgTopicCoverage, 1e-9)
	assert.InDelta(t, 1.0, rep.AvgSources, 1e-9)
	assert.InDelta(t, 1.0/3, rep.HallucinationRate, 1e-9)
	require.Error(t, rep.Results[2].Err)
}

func TestRender(t *testing.T) {
	rep := Summarize([]Result{
		{Case: Case{Name: "a", Category: "factual"}, Passed: true, Answer: core.Answer{Confidence: 0.9}},
		{Case: Case{Name: "b", Category: "factual"}, Err: errors.New("boom")},
	})

	var buf bytes.Buffer
	for _, r := range rep.Results {
		RenderResult(&buf, r)
	}
	RenderSummary(&buf, rep)

	out := buf.String()
	assert.Contains(t, out, "Overall: 1/2 passed (50.0%)")
	assert.Contains(t, out, "█████░░░░░ 1/2 (50%)")
	assert.Contains(t, out, "boom")
}

func TestLoadCases(t *testing.T) {
	cases, err := LoadCases(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, cases)
	assert.Equal(t, "When do I graduate?", cases[0].Query)
	assert.Equal(t, []string{"May", "2026"}, cases[0].ExpectedTopics)
}

func TestParseCases(t *testing.T) {
	cases, err := ParseCases([]byte("cases:\n  - name: x\n    query: hi\n"))
	require.NoError(t, err)
	assert.Equal(t, "uncategorized", cases[0].Category)

	_, err = ParseCases([]byte("cases:\n  - name: x\n"))
	require.Error(t, err)

	_, err = ParseCases([]byte("cases: ["))
	require.Error(t, err)
}
