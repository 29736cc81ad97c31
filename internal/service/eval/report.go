package eval

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/sandevgo/twinbot/internal/service/ui"
)

type CategoryStats struct {
	Name   string
	Passed int
	Total  int
}

func (s CategoryStats) Rate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total)
}

type Report struct {
	Results    []Result
	Total      int
	Passed     int
	Failed     int
	Categories []CategoryStats

	// Quality averages exclude cases that errored.
	AvgConfidence     float64
	AvgTopicCoverage  float64
	AvgSources        float64
	HallucinationRate float64
}

func (r Report) SuccessRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total)
}

func Summarize(results []Result) Report {
	rep := Report{Results: results, Total: len(results)}
	index := map[string]int{}

	var answered, hallucinated int
	for _, r := range results {
		i, ok := index[r.Case.Category]
		if !ok {
			i = len(rep.Categories)
			index[r.Case.Category] = i
			rep.Categories = append(rep.Categories, CategoryStats{Name: r.Case.Category})
		}
		rep.Categories[i].Total++

		if r.Passed {
			rep.Passed++
			rep.Categories[i].Passed++
		} else {
			rep.Failed++
		}

		if r.Err != nil {
			continue
		}
		answered++
		rep.AvgConfidence += r.Answer.Confidence
		rep.AvgTopicCoverage += r.TopicCoverage
		rep.AvgSources += float64(len(r.Answer.Sources))
		if len(r.ForbiddenFound) > 0 {
			hallucinated++
		}
	}

	if answered > 0 {
		rep.AvgConfidence /= float64(answered)
		rep.AvgTopicCoverage /= float64(answered)
		rep.AvgSources /= float64(answered)
	}
	if rep.Total > 0 {
		rep.HallucinationRate = float64(hallucinated) / float64(rep.Total)
	}
	return rep
}

// RenderResult prints a one-case verdict with the reasons for failure.
func RenderResult(w io.Writer, r Result) {
	fmt.Fprintf(w, "\n%s [%s]\n", r.Case.Name, r.Case.Category)
	fmt.Fprintf(w, "Query: %q\n", r.Case.Query)

	if r.Err != nil {
		fmt.Fprintf(w, "%s %v\n", ui.FailStyle.Render("ERROR"), r.Err)
		return
	}
	if r.Passed {
		fmt.Fprintln(w, ui.PassStyle.Render("PASSED"))
	} else {
		fmt.Fprintln(w, ui.FailStyle.Render("FAILED"))
		if len(r.ForbiddenFound) > 0 {
			fmt.Fprintf(w, "   Forbidden found: %s\n", strings.Join(r.ForbiddenFound, ", "))
		}
		if r.Answer.Confidence < r.Case.MinimumConfidence {
			fmt.Fprintf(w, "   Confidence: %.1f%% (need %.1f%%)\n", r.Answer.Confidence*100, r.Case.MinimumConfidence*100)
		}
	}

	found := strings.Join(r.TopicsFound, ", ")
	if found == "" {
		found = "none"
	}
	fmt.Fprintf(w, "Topics: %s (%d/%d) | Confidence: %.1f%% | Sources: %d\n",
		found, len(r.TopicsFound), len(r.Case.ExpectedTopics), r.Answer.Confidence*100, len(r.Answer.Sources))
}

func RenderSummary(w io.Writer, rep Report) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintf(w, "\n%s\n%s\n", rule, ui.TitleStyle.Render("Evaluation Summary"))
	fmt.Fprintf(w, "Overall: %d/%d passed (%.1f%%)\n\n", rep.Passed, rep.Total, rep.SuccessRate()*100)

	fmt.Fprintln(w, "By Category:")
	for _, c := range rep.Categories {
		filled := int(math.Round(c.Rate() * 10))
		bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
		fmt.Fprintf(w, "  %-22s %s %d/%d (%.0f%%)\n", c.Name, bar, c.Passed, c.Total, c.Rate()*100)
	}

	fmt.Fprintln(w, "\nQuality:")
	fmt.Fprintf(w, "  Avg Confidence:     %.1f%%\n", rep.AvgConfidence*100)
	fmt.Fprintf(w, "  Avg Topic Coverage: %.1f%%\n", rep.AvgTopicCoverage*100)
	fmt.Fprintf(w, "  Avg Sources:        %.1f\n", rep.AvgSources)
	fmt.Fprintf(w, "  Hallucination Rate: %.1f%%\n", rep.HallucinationRate*100)
	fmt.Fprintln(w, rule)
}
