package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/twinbot/internal/core"
	"github.com/sandevgo/twinbot/internal/service/planner"
	"github.com/sandevgo/twinbot/pkg/log"
	"github.com/sandevgo/twinbot/pkg/vecmath"
)

const (
	keywordBoost  = 0.02
	calendarBoost = 0.01

	temporalThreshold = 0.2
	defaultThreshold  = 0.3

	extendedLimit = 30
	temporalLimit = 20
	defaultLimit  = 7
)

type Retriever struct {
	corpus core.CorpusLoader
}

func New(corpus core.CorpusLoader) *Retriever {
	return &Retriever{corpus: corpus}
}

// Retrieve scores the corpus for windowDays against the query and returns
// the ranked documents above the applicable threshold.
func (r *Retriever) Retrieve(ctx context.Context, queryEmbedding []float32, queryText string, windowDays int) (core.RetrievalResult, error) {
	logger := log.FromCtx(ctx)

	docs, err := r.corpus.Load(ctx, windowDays)
	if err != nil {
		if !errors.Is(err, core.ErrDataUnavailable) {
			return core.RetrievalResult{}, fmt.Errorf("load corpus: %w", err)
		}
		logger.Warn().Err(err).Msg("retrieving over an empty corpus")
		docs = nil
	}

	result, err := Rank(docs, queryEmbedding, queryText, windowDays)
	if err != nil {
		return core.RetrievalResult{}, err
	}

	logger.Info().
		Int("count", len(result.Documents)).
		Float64("top_score", result.TopScore()).
		Bool("temporal", result.Temporal).
		Int("window_days", windowDays).
		Msg("retrieved documents")
	return result, nil
}

// Rank is the pure scoring step of Retrieve.
func Rank(docs []core.Document, queryEmbedding []float32, queryText string, windowDays int) (core.RetrievalResult, error) {
	temporal := planner.IsTemporal(queryText)
	keywords := planner.Keywords(queryText)
	threshold, limit := Policy(temporal, windowDays)

	scored := make([]core.ScoredDocument, 0, len(docs))
	for _, doc := range docs {
		semantic, err := vecmath.CosineSimilarity(queryEmbedding, doc.Embedding)
		if err != nil {
			return core.RetrievalResult{}, fmt.Errorf("score document %s: %w", doc.ID, err)
		}

		matches := countKeywordMatches(keywords, doc.Content)
		score := semantic + keywordBoost*float64(matches)
		if temporal && doc.IsCalendar() {
			score += calendarBoost
		}

		scored = append(scored, core.ScoredDocument{
			Document:       doc,
			Score:          score,
			SemanticScore:  semantic,
			KeywordMatches: matches,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	kept := make([]core.ScoredDocument, 0, limit)
	for _, d := range scored {
		if len(kept) == limit {
			break
		}
		if d.Score >= threshold {
			kept = append(kept, d)
		}
	}

	return core.RetrievalResult{
		Documents:  kept,
		Temporal:   temporal,
		Threshold:  threshold,
		Limit:      limit,
		WindowDays: windowDays,
	}, nil
}

// Policy returns the score threshold and result cap for a query.
func Policy(temporal bool, windowDays int) (float64, int) {
	threshold := defaultThreshold
	if temporal {
		threshold = temporalThreshold
	}

	switch {
	case windowDays > planner.DefaultWindowDays:
		return threshold, extendedLimit
	case temporal:
		return threshold, temporalLimit
	default:
		return threshold, defaultLimit
	}
}

func countKeywordMatches(keywords []string, content string) int {
	lower := strings.ToLower(content)
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}
