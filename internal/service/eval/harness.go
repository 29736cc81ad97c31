package eval

import (
	"context"
	"strings"

	"github.com/sandevgo/twinbot/internal/core"
	"github.com/sandevgo/twinbot/pkg/log"
)

// Result is the verdict for one case. Err is set when the question could not be answered.
type Result struct {
	Case           Case
	Passed         bool
	Answer         core.Answer
	TopicsFound    []string
	ForbiddenFound []string
	TopicCoverage  float64
	Err            error
}

type Harness struct {
	asker core.Asker
}

func NewHarness(asker core.Asker) *Harness {
	return &Harness{asker: asker}
}

// Run asks every case without history. onResult, if set, sees each result as it completes.
func (h *Harness) Run(ctx context.Context, cases []Case, onResult func(Result)) Report {
	logger := log.FromCtx(ctx)
	results := make([]Result, 0, len(cases))

	for _, c := range cases {
		if ctx.Err() != nil {
			break
		}
		answer, err := h.asker.Ask(ctx, c.Query, nil)
		var r Result
		if err != nil {
			logger.Warn().Err(err).Str("case", c.Name).Msg("evaluation case failed")
			r = Result{Case: c, Err: err}
		} else {
			r = Evaluate(c, answer)
		}
		results = append(results, r)
		if onResult != nil {
			onResult(r)
		}
	}

	return Summarize(results)
}

// Evaluate scores an answer against the case expectations.
// Topic coverage must be complete for up to two topics and at least half otherwise.
// Hallucination tests may pass without sources when the answer names an expected topic.
func Evaluate(c Case, answer core.Answer) Result {
	lower := strings.ToLower(answer.Text)

	r := Result{
		Case:           c,
		Answer:         answer,
		TopicsFound:    containing(lower, c.ExpectedTopics),
		ForbiddenFound: containing(lower, c.ShouldNotContain),
		TopicCoverage:  1,
	}
	if len(c.ExpectedTopics) > 0 {
		r.TopicCoverage = float64(len(r.TopicsFound)) / float64(len(c.ExpectedTopics))
	}

	threshold := 0.5
	if len(c.ExpectedTopics) <= 2 {
		threshold = 1.0
	}

	hasSources := len(answer.Sources) >= 1
	if c.Category == HallucinationCategory {
		hasSources = hasSources || len(r.TopicsFound) > 0
	}

	r.Passed = r.TopicCoverage >= threshold &&
		len(r.ForbiddenFound) == 0 &&
		answer.Confidence >= c.MinimumConfidence &&
		hasSources
	return r
}

func containing(lower string, terms []string) []string {
	var found []string
	for _, t := range terms {
		if strings.Contains(lower, strings.ToLower(t)) {
			found = append(found, t)
		}
	}
	return found
}
