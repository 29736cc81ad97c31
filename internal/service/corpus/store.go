package corpus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/twinbot/internal/core"
	"github.com/sandevgo/twinbot/pkg/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCalendarID = "primary"
	rebuildKey        = "corpus"
)

type StoreConfig struct {
	// CalendarMatch holds lowercase display-name fragments identifying the subject's calendars.
	CalendarMatch []string
	Location      *time.Location
}

type Store struct {
	facts      core.FactSource
	embeddings core.EmbeddingRepository
	calendar   core.CalendarProvider
	embedder   core.Embedder
	cache      *Cache
	cfg        StoreConfig
	metrics    *Metrics

	group singleflight.Group

	mu          sync.RWMutex
	lastOutcome core.FetchOutcome
}

type build struct {
	docs       []core.Document
	windowDays int
}

func NewStore(
	facts core.FactSource,
	embeddings core.EmbeddingRepository,
	calendar core.CalendarProvider,
	embedder core.Embedder,
	cache *Cache,
	cfg StoreConfig,
) *Store {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cache == nil {
		cache = NewCache(nil)
	}
	return &Store{
		facts:      facts,
		embeddings: embeddings,
		calendar:   calendar,
		embedder:   embedder,
		cache:      cache,
		cfg:        cfg,
		metrics:    NewMetrics(),
	}
}

// Load returns the corpus covering windowDays, rebuilding it at most once at a time.
func (s *Store) Load(ctx context.Context, windowDays int) ([]core.Document, error) {
	logger := log.FromCtx(ctx)

	for {
		if docs, ok := s.cache.Get(windowDays); ok {
			s.metrics.CacheHitsTotal.Inc()
			logger.Debug().Int("requested_window", windowDays).Int("documents", len(docs)).Msg("corpus cache hit")
			return docs, nil
		}
		s.metrics.CacheMissesTotal.Inc()

		// a rebuild outlives the caller that started it
		rctx := context.WithoutCancel(ctx)
		v, err, shared := s.group.Do(rebuildKey, func() (any, error) {
			return s.rebuild(rctx, windowDays)
		})
		if err != nil {
			return nil, err
		}

		b := v.(build)
		if !shared || b.windowDays >= windowDays {
			return b.docs, nil
		}
		// joined a narrower rebuild, try again for the wider window
	}
}

func (s *Store) rebuild(ctx context.Context, windowDays int) (build, error) {
	logger := log.FromCtx(ctx)
	start := time.Now()
	defer func() {
		s.metrics.RebuildDuration.Observe(time.Since(start).Seconds())
	}()

	status := s.cache.Status()
	logger.Info().
		Int("requested_window", windowDays).
		Int("cached_window", status.WindowDays).
		Msg("rebuilding corpus")

	cacheable := true
	static, err := s.loadStatic(ctx)
	switch {
	case errors.Is(err, core.ErrDataUnavailable):
		logger.Warn().Err(err).Msg("no facts file, using persisted embeddings as static documents")
		if static, err = s.embeddings.Load(ctx); err != nil {
			return build{}, fmt.Errorf("%w: %v", core.ErrDataUnavailable, err)
		}
	case err != nil:
		s.metrics.DegradedTotal.WithLabelValues("static").Inc()
		logger.Error().Err(err).Msg("failed to load static documents, using persisted embeddings")
		if static, err = s.embeddings.Load(ctx); err != nil {
			return build{}, fmt.Errorf("%w: %v", core.ErrDataUnavailable, err)
		}
		cacheable = false
	}

	events, outcome := s.fetchEvents(ctx, windowDays)
	s.setOutcome(outcome)
	if !outcome.IsOK() {
		s.metrics.DegradedTotal.WithLabelValues("calendar").Inc()
		logger.Warn().Str("reason", outcome.Reason).Msg("calendar degraded, serving static documents only")
		return s.staticOnly(static, windowDays)
	}

	calendarDocs, err := s.embedEvents(ctx, events)
	if err != nil {
		s.metrics.DegradedTotal.WithLabelValues("embedding").Inc()
		s.setOutcome(core.Degraded(err.Error()))
		logger.Error().Err(err).Msg("failed to embed calendar events, serving static documents only")
		return s.staticOnly(static, windowDays)
	}

	docs := make([]core.Document, 0, len(static)+len(calendarDocs))
	docs = append(docs, static...)
	docs = append(docs, calendarDocs...)
	if len(docs) == 0 {
		return build{}, core.ErrDataUnavailable
	}
	if cacheable {
		s.cache.Replace(docs, windowDays)
	}

	s.metrics.Documents.WithLabelValues(string(core.DocumentStatic)).Set(float64(len(static)))
	s.metrics.Documents.WithLabelValues(string(core.DocumentCalendar)).Set(float64(len(calendarDocs)))
	logger.Info().
		Int("static", len(static)).
		Int("calendar", len(calendarDocs)).
		Int("window_days", windowDays).
		Msg("corpus rebuilt")

	return build{docs: docs, windowDays: windowDays}, nil
}

// staticOnly serves a degraded build, which is never cached.
func (s *Store) staticOnly(static []core.Document, windowDays int) (build, error) {
	if len(static) == 0 {
		return build{}, core.ErrDataUnavailable
	}
	return build{docs: static, windowDays: windowDays}, nil
}

// loadStatic returns the static facts with embeddings, computing and persisting
// embeddings only for facts whose content has no stored vector yet. Rows for
// facts no longer in the source are deleted.
func (s *Store) loadStatic(ctx context.Context) ([]core.Document, error) {
	facts, err := s.facts.Facts(ctx)
	if err != nil {
		return nil, fmt.Errorf("read facts: %w", err)
	}

	persisted, err := s.embeddings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}
	known := make(map[string]core.Document, len(persisted))
	for _, d := range persisted {
		known[d.ID] = d
	}
	if err := s.pruneStale(ctx, facts, known); err != nil {
		return nil, err
	}

	docs := make([]core.Document, len(facts))
	var missing []int
	for i, f := range facts {
		if d, ok := known[f.ID]; ok && d.Content == f.Content && len(d.Embedding) > 0 {
			docs[i] = d
			continue
		}
		docs[i] = core.Document{ID: f.ID, Type: core.DocumentStatic, Title: f.Category, Content: f.Content}
		missing = append(missing, i)
	}

	if len(missing) == 0 {
		return docs, nil
	}

	log.FromCtx(ctx).Info().Int("count", len(missing)).Msg("embedding static facts")
	texts := make([]string, len(missing))
	for j, i := range missing {
		texts[j] = docs[i].Content
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed facts: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embed facts: got %d vectors for %d texts", len(vectors), len(texts))
	}

	fresh := make([]core.Document, len(missing))
	for j, i := range missing {
		docs[i].Embedding = vectors[j]
		fresh[j] = docs[i]
	}
	if err := s.embeddings.SaveAll(ctx, fresh); err != nil {
		return nil, fmt.Errorf("persist embeddings: %w", err)
	}
	return docs, nil
}

func (s *Store) pruneStale(ctx context.Context, facts []core.StaticFact, known map[string]core.Document) error {
	current := make(map[string]struct{}, len(facts))
	for _, f := range facts {
		current[f.ID] = struct{}{}
	}
	var stale []string
	for id := range known {
		if _, ok := current[id]; !ok {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	sort.Strings(stale)
	if err := s.embeddings.Delete(ctx, stale); err != nil {
		return fmt.Errorf("prune embeddings: %w", err)
	}
	log.FromCtx(ctx).Info().Strs("ids", stale).Msg("pruned embeddings of removed facts")
	return nil
}

func (s *Store) fetchEvents(ctx context.Context, windowDays int) ([]core.CalendarEvent, core.FetchOutcome) {
	calendars, outcome := s.calendar.ListCalendars(ctx)
	if !outcome.IsOK() {
		return nil, outcome
	}

	ids := ResolveCalendarIDs(calendars, s.cfg.CalendarMatch)
	log.FromCtx(ctx).Debug().Strs("calendars", ids).Msg("resolved calendars")

	results := make([][]core.CalendarEvent, len(ids))
	outcomes := make([]core.FetchOutcome, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			results[i], outcomes[i] = s.calendar.FetchEvents(gctx, id, windowDays)
			return nil
		})
	}
	_ = g.Wait()

	var events []core.CalendarEvent
	for i, o := range outcomes {
		if !o.IsOK() {
			return nil, core.Degraded(fmt.Sprintf("calendar %s: %s", ids[i], o.Reason))
		}
		events = append(events, results[i]...)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
	return events, core.OK()
}

func (s *Store) embedEvents(ctx context.Context, events []core.CalendarEvent) ([]core.Document, error) {
	if len(events) == 0 {
		return nil, nil
	}

	docs := make([]core.Document, len(events))
	texts := make([]string, len(events))
	for i, ev := range events {
		docs[i] = EventToDocument(ev, s.cfg.Location)
		texts[i] = docs[i].Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("got %d vectors for %d events", len(vectors), len(docs))
	}
	for i := range docs {
		docs[i].Embedding = vectors[i]
	}
	return docs, nil
}

// ResolveCalendarIDs picks every calendar whose display name contains one of
// the match fragments, falling back to the primary calendar.
func ResolveCalendarIDs(calendars []core.CalendarInfo, match []string) []string {
	var ids []string
	for _, c := range calendars {
		name := strings.ToLower(c.DisplayName)
		for _, m := range match {
			m = strings.ToLower(strings.TrimSpace(m))
			if m != "" && strings.Contains(name, m) {
				ids = append(ids, c.ID)
				break
			}
		}
	}
	if len(ids) == 0 {
		return []string{defaultCalendarID}
	}
	return ids
}

// Refresh drops the cache and recomputes every static embedding.
func (s *Store) Refresh(ctx context.Context) (int, error) {
	s.cache.Invalidate()
	if err := s.embeddings.Clear(ctx); err != nil {
		return 0, fmt.Errorf("clear embeddings: %w", err)
	}
	docs, err := s.loadStatic(ctx)
	if errors.Is(err, core.ErrDataUnavailable) {
		log.FromCtx(ctx).Warn().Err(err).Msg("no facts file, nothing to embed")
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	log.FromCtx(ctx).Info().Int("count", len(docs)).Msg("static embeddings refreshed")
	return len(docs), nil
}

func (s *Store) Invalidate() {
	s.cache.Invalidate()
}

func (s *Store) Status() core.CorpusStatus {
	st := s.cache.Status()
	s.mu.RLock()
	defer s.mu.RUnlock()
	st.CalendarStatus = s.lastOutcome.Status.String()
	if s.lastOutcome.Reason != "" {
		st.CalendarStatus += ": " + s.lastOutcome.Reason
	}
	return st
}

func (s *Store) setOutcome(o core.FetchOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastOutcome = o
}
