package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values shared by the pipeline collectors.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

var (
	// Generations counts finished generation runs by kind and outcome
	// (ok, configuration, malformed, upstream, invalid).
	Generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reading_generations_total",
			Help: "Reading generation runs by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// GenerationDuration observes wall time of successful runs.
	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reading_generation_duration_seconds",
			Help:    "Duration of successful reading generations.",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 45, 60, 90, 120},
		},
		[]string{"kind"},
	)

	// ImageSlots counts image slots by outcome (ok, failed, skipped).
	ImageSlots = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reading_image_slots_total",
			Help: "Image slots by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// ImageFailures breaks failed image calls down by reason
	// (missing_key, transport, status, no_image, decode).
	ImageFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reading_image_failures_total",
			Help: "Failed image generation calls by style and reason.",
		},
		[]string{"style", "reason"},
	)

	// Saves counts persistence attempts by kind and outcome.
	Saves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reading_saves_total",
			Help: "Reading save attempts by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(Generations, GenerationDuration, ImageSlots, ImageFailures, Saves)
}

// ObserveGeneration records one finished run.
func ObserveGeneration(kind, outcome string, started time.Time) {
	Generations.WithLabelValues(kind, outcome).Inc()
	if outcome == OutcomeOK {
		GenerationDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	}
}
