package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification pipeline.
type Metrics struct {
	// Verdicts by document type and outcome (accepted, rejected_doc_type, rejected_name)
	Verdicts *prometheus.CounterVec

	// Full pipeline latency including OCR
	VerifyLatency prometheus.Histogram

	// Images whose OCR failed and were treated as empty text
	DegradedImages *prometheus.CounterVec

	// Side effects that failed without affecting the verdict (persist, notify, audit)
	SideEffectFailures *prometheus.CounterVec
}

// New creates a new Metrics instance with all verification metrics registered.
func New() *Metrics {
	return &Metrics{
		Verdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "idverify_verification_verdicts_total",
			Help: "Verification verdicts by document type and outcome",
		}, []string{"doc_type", "outcome"}),

		VerifyLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "idverify_verification_duration_seconds",
			Help:    "Duration of a full verification including OCR",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),

		DegradedImages: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "idverify_verification_degraded_images_total",
			Help: "Images whose recognition failed and were treated as empty text",
		}, []string{"slot"}),

		SideEffectFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "idverify_verification_side_effect_failures_total",
			Help: "Failed persistence, notification, or audit writes",
		}, []string{"effect"}),
	}
}

// IncrementVerdict records a verdict outcome.
func (m *Metrics) IncrementVerdict(docType, outcome string) {
	if m != nil {
		m.Verdicts.WithLabelValues(docType, outcome).Inc()
	}
}

// ObserveVerifyLatency records the total pipeline duration.
func (m *Metrics) ObserveVerifyLatency(d time.Duration) {
	if m != nil {
		m.VerifyLatency.Observe(d.Seconds())
	}
}

// IncrementDegradedImage records an image that fell back to empty text.
func (m *Metrics) IncrementDegradedImage(slot string) {
	if m != nil {
		m.DegradedImages.WithLabelValues(slot).Inc()
	}
}

// IncrementSideEffectFailure records a failed persist, notify, or audit write.
func (m *Metrics) IncrementSideEffectFailure(effect string) {
	if m != nil {
		m.SideEffectFailures.WithLabelValues(effect).Inc()
	}
}
