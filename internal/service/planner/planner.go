package planner

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/twinbot/internal/core"
	"github.com/sandevgo/twinbot/pkg/log"
)

// IsTemporal reports whether the query talks about days, dates or schedules.
func IsTemporal(query string) bool {
	return temporalPattern.MatchString(query)
}

// Keywords lowercases the query, strips punctuation and keeps tokens longer than three characters.
// Duplicates are kept.
func Keywords(query string) []string {
	cleaned := nonAlphanumeric.ReplaceAllString(strings.ToLower(query), "")
	var out []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}

// InferWindowDays decides how many days of calendar lookahead a query needs.
// It returns the window and a short reason for logging.
func InferWindowDays(query string, now time.Time) (int, string) {
	horizon := now.AddDate(0, 0, DefaultWindowDays)
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if m := monthDayPattern.FindStringSubmatch(query); m != nil {
		month := monthsByPrefix[strings.ToLower(m[1])[:3]]
		day, _ := strconv.Atoi(m[2])
		target := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
		if target.Before(startOfToday) {
			target = target.AddDate(1, 0, 0)
		}
		if target.After(horizon) {
			return ExtendedWindowDays, fmt.Sprintf("date %q is outside the default window", m[0])
		}
	}

	for _, m := range monthPattern.FindAllStringSubmatch(query, -1) {
		month := monthsByPrefix[strings.ToLower(m[1])[:3]]
		monthEnd := endOfMonth(now.Year(), month, now.Location())
		if monthEnd.Before(startOfToday) {
			monthEnd = endOfMonth(now.Year()+1, month, now.Location())
		}
		if monthEnd.After(horizon) {
			return ExtendedWindowDays, fmt.Sprintf("month %q extends beyond the default window", strings.ToLower(m[1]))
		}
	}

	for _, re := range farFuturePatterns {
		if re.MatchString(query) {
			return ExtendedWindowDays, fmt.Sprintf("matched %q", re.String())
		}
	}

	return DefaultWindowDays, "default"
}

func endOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
}

// FilterByDay keeps calendar documents starting on the first weekday named in the query.
// Non-calendar documents always pass through and relative order is preserved.
func FilterByDay(query string, docs []core.ScoredDocument, loc *time.Location) ([]core.ScoredDocument, bool) {
	m := weekdayPattern.FindStringSubmatch(query)
	if m == nil {
		return docs, false
	}
	want := weekdays[strings.ToLower(m[1])]
	return filterCalendar(docs, func(t time.Time) bool {
		return t.In(loc).Weekday() == want
	}), true
}

// FilterByMonth keeps calendar documents starting in the first month named in the query.
func FilterByMonth(query string, docs []core.ScoredDocument, loc *time.Location) ([]core.ScoredDocument, bool) {
	m := monthPattern.FindStringSubmatch(query)
	if m == nil {
		return docs, false
	}
	want := monthsByPrefix[strings.ToLower(m[1])[:3]]
	return filterCalendar(docs, func(t time.Time) bool {
		return t.In(loc).Month() == want
	}), true
}

func filterCalendar(docs []core.ScoredDocument, keep func(time.Time) bool) []core.ScoredDocument {
	out := make([]core.ScoredDocument, 0, len(docs))
	for _, d := range docs {
		if !d.IsCalendar() || keep(d.Date) {
			out = append(out, d)
		}
	}
	return out
}

func countCalendar(docs []core.ScoredDocument) int {
	n := 0
	for _, d := range docs {
		if d.IsCalendar() {
			n++
		}
	}
	return n
}

// Planner binds the pure planning functions to a clock and a timezone.
type Planner struct {
	loc *time.Location
	now core.Clock
}

func New(loc *time.Location, now core.Clock) *Planner {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Planner{loc: loc, now: now}
}

func (p *Planner) Location() *time.Location {
	return p.loc
}

func (p *Planner) Now() time.Time {
	return p.now().In(p.loc)
}

func (p *Planner) WindowDays(ctx context.Context, query string) int {
	days, reason := InferWindowDays(query, p.Now())
	log.FromCtx(ctx).Debug().
		Int("window_days", days).
		Str("reason", reason).
		Msg("inferred calendar window")
	return days
}

// Filter applies the weekday filter and then the month filter to its output.
func (p *Planner) Filter(ctx context.Context, query string, docs []core.ScoredDocument) []core.ScoredDocument {
	logger := log.FromCtx(ctx)

	before := countCalendar(docs)
	docs, applied := FilterByDay(query, docs, p.loc)
	if applied {
		logger.Debug().Int("before", before).Int("after", countCalendar(docs)).Msg("day filter")
	}

	before = countCalendar(docs)
	docs, applied = FilterByMonth(query, docs, p.loc)
	if applied {
		logger.Debug().Int("before", before).Int("after", countCalendar(docs)).Msg("month filter")
	}
	return docs
}
