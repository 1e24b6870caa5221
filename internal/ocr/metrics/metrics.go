package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for OCR calls.
type Metrics struct {
	// Per-image latency by slot and outcome
	ImageLatency *prometheus.HistogramVec

	// Failures by category
	Failures *prometheus.CounterVec

	// Cache lookups by result
	CacheLookups *prometheus.CounterVec
}

// New creates a new Metrics instance with all OCR metrics registered.
func New() *Metrics {
	return &Metrics{
		ImageLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "idverify_ocr_image_duration_seconds",
			Help:    "Duration of signing plus recognition per image",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
		}, []string{"slot", "outcome"}), // outcome: "ok", "failed", "cached"

		Failures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "idverify_ocr_failures_total",
			Help: "OCR image failures by category",
		}, []string{"category"}),

		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "idverify_ocr_cache_lookups_total",
			Help: "OCR text cache lookups by result",
		}, []string{"result"}),
	}
}

// ObserveImage records the duration of one image.
func (m *Metrics) ObserveImage(slot, outcome string, d time.Duration) {
	if m != nil {
		m.ImageLatency.WithLabelValues(slot, outcome).Observe(d.Seconds())
	}
}

// IncrementFailure records an image failure.
func (m *Metrics) IncrementFailure(category string) {
	if m != nil {
		m.Failures.WithLabelValues(category).Inc()
	}
}

// RecordCacheLookup records a cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
