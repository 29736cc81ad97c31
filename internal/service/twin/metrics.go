package twin

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
	QueriesTotal       *prometheus.CounterVec
	QueryDuration      prometheus.Histogram
	Confidence         prometheus.Histogram
	RetrievedDocuments prometheus.Histogram
	WindowTotal        *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			QueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "twin_queries_total",
				Help: "Total number of answered questions",
			}, []string{"outcome"}), // "ok", "error"
			QueryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "twin_query_duration_seconds",
				Help:    "End to end duration of a question in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			}),
			Confidence: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "twin_answer_confidence",
				Help:    "Confidence reported for answers",
				Buckets: []float64{0.1, 0.3, 0.45, 0.6, 0.75, 0.9, 1},
			}),
			RetrievedDocuments: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "twin_retrieved_documents",
				Help:    "Number of documents shown to the model",
				Buckets: []float64{0, 1, 3, 5, 7, 10, 20, 30},
			}),
			WindowTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "twin_calendar_window_total",
				Help: "Calendar window chosen per question",
			}, []string{"days"}),
		}
	})
	return globalMetrics
}
