package twin

import (
	"math"
	"strings"

	"github.com/sandevgo/twinbot/internal/core"
)

const (
	emptyConfidence     = 0.1
	uncertaintyCeiling  = 0.3
	bonusStep           = 0.05
	manyDocuments       = 5
	veryManyDocuments   = 10
	confidenceCeiling   = 1.0
	confidencePrecision = 1e6
)

var confidenceTiers = []struct {
	above float64
	value float64
}{
	{0.45, 0.9},
	{0.40, 0.75},
	{0.35, 0.6},
	{0.30, 0.45},
}

var uncertaintyPhrases = []string{"don't have", "not sure", "don't know", "no information", "can't find"}

// Confidence estimates how much to trust an answer from the retrieval signal and the answer text.
func Confidence(topScore float64, docCount int, hasCalendarAndStatic bool, response string) float64 {
	if docCount == 0 {
		return emptyConfidence
	}

	c := 0.3
	for _, tier := range confidenceTiers {
		if topScore > tier.above {
			c = tier.value
			break
		}
	}

	if docCount >= manyDocuments {
		c = math.Min(c+bonusStep, confidenceCeiling)
	}
	if docCount >= veryManyDocuments {
		c = math.Min(c+bonusStep, confidenceCeiling)
	}
	if hasCalendarAndStatic {
		c = math.Min(c+bonusStep, confidenceCeiling)
	}

	if AdmitsUncertainty(response) {
		c = math.Min(c, uncertaintyCeiling)
	}
	return math.Round(c*confidencePrecision) / confidencePrecision
}

func AdmitsUncertainty(response string) bool {
	lower := strings.ToLower(response)
	for _, p := range uncertaintyPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// ConfidenceFor derives the confidence inputs from the documents that were shown to the model.
func ConfidenceFor(docs []core.ScoredDocument, response string) float64 {
	var top float64
	var calendar, other bool
	for i, d := range docs {
		if i == 0 || d.Score > top {
			top = d.Score
		}
		if d.IsCalendar() {
			calendar = true
		} else {
			other = true
		}
	}
	return Confidence(top, len(docs), calendar && other, response)
}
