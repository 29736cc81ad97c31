package corpus

import (
	"sync"
	"time"

	"github.com/sandevgo/twinbot/internal/core"
)

const (
	shortTTL        = 5 * time.Minute
	extendedTTL     = 30 * time.Minute
	extendedTTLDays = 60
)

// TTL returns how long a corpus covering windowDays stays fresh.
func TTL(windowDays int) time.Duration {
	if windowDays >= extendedTTLDays {
		return extendedTTL
	}
	return shortTTL
}

// Cache holds the last assembled corpus. Readers always observe a complete snapshot.
type Cache struct {
	mu            sync.RWMutex
	docs          []core.Document
	fetchedAt     time.Time
	windowDays    int
	staticCount   int
	calendarCount int
	valid         bool
	now           core.Clock
}

func NewCache(now core.Clock) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{now: now}
}

// Get returns a copy of the cached corpus if it is fresh and covers windowDays.
func (c *Cache) Get(windowDays int) ([]core.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid || len(c.docs) == 0 {
		return nil, false
	}
	if c.now().Sub(c.fetchedAt) > TTL(c.windowDays) {
		return nil, false
	}
	if c.windowDays < windowDays {
		return nil, false
	}

	docs := make([]core.Document, len(c.docs))
	copy(docs, c.docs)
	return docs, true
}

// Replace swaps in a freshly built corpus.
func (c *Cache) Replace(docs []core.Document, windowDays int) {
	stored := make([]core.Document, len(docs))
	copy(stored, docs)

	calendar := 0
	for _, d := range stored {
		if d.IsCalendar() {
			calendar++
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.docs = stored
	c.fetchedAt = c.now()
	c.windowDays = windowDays
	c.calendarCount = calendar
	c.staticCount = len(stored) - calendar
	c.valid = true
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = false
	c.docs = nil
	c.fetchedAt = time.Time{}
	c.windowDays = 0
	c.staticCount = 0
	c.calendarCount = 0
}

func (c *Cache) Status() core.CorpusStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return core.CorpusStatus{
		Valid:         c.valid && c.now().Sub(c.fetchedAt) <= TTL(c.windowDays),
		FetchedAt:     c.fetchedAt,
		WindowDays:    c.windowDays,
		StaticCount:   c.staticCount,
		CalendarCount: c.calendarCount,
	}
}
