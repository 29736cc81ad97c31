package twin

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sandevgo/twinbot/internal/core"
	"github.com/sandevgo/twinbot/internal/service/planner"
	"github.com/sandevgo/twinbot/pkg/log"
)

type Retriever interface {
	Retrieve(ctx context.Context, queryEmbedding []float32, queryText string, windowDays int) (core.RetrievalResult, error)
}

type TokenCounter interface {
	CountTokens(text string) int
}

// Twin answers questions in the subject's voice from retrieved personal data.
type Twin struct {
	embedder     core.Embedder
	retriever    Retriever
	planner      *planner.Planner
	generator    core.Generator
	tokens       TokenCounter
	systemPrompt string
	metrics      *Metrics
}

func New(
	embedder core.Embedder,
	retriever Retriever,
	plan *planner.Planner,
	generator core.Generator,
	tokens TokenCounter,
	systemPrompt string,
) *Twin {
	return &Twin{
		embedder:     embedder,
		retriever:    retriever,
		planner:      plan,
		generator:    generator,
		tokens:       tokens,
		systemPrompt: systemPrompt,
		metrics:      NewMetrics(),
	}
}

func (t *Twin) Ask(ctx context.Context, query string, history []core.Message) (core.Answer, error) {
	start := time.Now()
	answer, err := t.ask(ctx, query, history)
	t.metrics.QueryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		t.metrics.QueriesTotal.WithLabelValues("error").Inc()
		return core.Answer{}, err
	}
	t.metrics.QueriesTotal.WithLabelValues("ok").Inc()
	t.metrics.Confidence.Observe(answer.Confidence)
	return answer, nil
}

func (t *Twin) ask(ctx context.Context, query string, history []core.Message) (core.Answer, error) {
	logger := log.FromCtx(ctx)

	windowDays := t.planner.WindowDays(ctx, query)
	t.metrics.WindowTotal.WithLabelValues(strconv.Itoa(windowDays)).Inc()

	queryEmbedding, err := t.embedder.Embed(ctx, query)
	if err != nil {
		return core.Answer{}, fmt.Errorf("embed query: %w", err)
	}

	result, err := t.retriever.Retrieve(ctx, queryEmbedding, query, windowDays)
	if err != nil {
		return core.Answer{}, fmt.Errorf("retrieve: %w", err)
	}

	docs := t.planner.Filter(ctx, query, result.Documents)
	t.metrics.RetrievedDocuments.Observe(float64(len(docs)))

	grounding := GroundingContext(t.planner.Now(), docs)
	if t.tokens != nil {
		logger.Debug().Int("context_tokens", t.tokens.CountTokens(grounding)).Msg("grounding context built")
	}

	text, err := t.generator.Generate(ctx, core.GenerateRequest{
		SystemPrompt: t.systemPrompt,
		Context:      grounding,
		Query:        query,
		History:      TrimHistory(history, MaxHistoryTurns),
	})
	if err != nil {
		return core.Answer{}, fmt.Errorf("generate: %w", err)
	}

	confidence := ConfidenceFor(docs, text)
	logger.Info().
		Int("documents", len(docs)).
		Float64("confidence", confidence).
		Int("window_days", windowDays).
		Msg("question answered")

	return core.Answer{
		Text:       text,
		Chunks:     SplitIntoChunks(text, MaxChunkLength),
		Sources:    Sources(docs),
		Confidence: confidence,
	}, nil
}
