package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the extraction module.
// Tracks extraction outcomes per document type and stage durations.
type Metrics struct {
	Extractions        *prometheus.CounterVec
	ExtractionDuration prometheus.Histogram
	EngineDuration     prometheus.Histogram
	CacheHits          prometheus.Counter
}

// New creates a new Metrics instance with all extraction module metrics registered.
func New() *Metrics {
	return &Metrics{
		Extractions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ocr_extractions_total",
			Help: "Total number of extraction requests by document type and outcome",
		}, []string{"document_type", "outcome"}),
		ExtractionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ocr_extraction_duration_seconds",
			Help:    "Duration of the full extraction pipeline",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		EngineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ocr_engine_duration_seconds",
			Help:    "Duration of the text recognition engine call",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ocr_cache_hits_total",
			Help: "Total number of extraction results served from cache",
		}),
	}
}

// RecordExtraction records one extraction attempt with its outcome.
func (m *Metrics) RecordExtraction(documentType, outcome string) {
	m.Extractions.WithLabelValues(documentType, outcome).Inc()
}

// ObserveExtraction records the duration of a full pipeline run.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveExtraction(start time.Time) {
	m.ExtractionDuration.Observe(time.Since(start).Seconds())
}

// ObserveEngine records the duration of one engine call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveEngine(start time.Time) {
	m.EngineDuration.Observe(time.Since(start).Seconds())
}

// IncrementCacheHit records an extraction served from cache.
func (m *Metrics) IncrementCacheHit() {
	m.CacheHits.Inc()
}
