package corpus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

type Metrics struct {
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	RebuildDuration  prometheus.Histogram
	DegradedTotal    *prometheus.CounterVec
	Documents        *prometheus.GaugeVec
}

// NewMetrics registers the corpus metrics once per process.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			CacheHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "twin_corpus_cache_hits_total",
				Help: "Total number of corpus cache hits",
			}),
			CacheMissesTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "twin_corpus_cache_misses_total",
				Help: "Total number of corpus cache misses",
			}),
			RebuildDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "twin_corpus_rebuild_duration_seconds",
				Help:    "Duration of corpus rebuilds in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			}),
			DegradedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "twin_corpus_degraded_total",
				Help: "Total number of rebuilds that fell back to static data",
			}, []string{"stage"}), // "calendar", "embedding", "static"
			Documents: promauto.NewGaugeVec(prometheus.GaugeOpts{
				Name: "twin_corpus_documents",
				Help: "Number of documents in the current corpus",
			}, []string{"type"}),
		}
	})
	return globalMetrics
}
