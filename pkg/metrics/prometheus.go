package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	insightsBuilt *prometheus.CounterVec
	ticksSent     *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	livePace      *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		insightsBuilt: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pacepulse_insights_built_total",
				Help: "Total number of insights rendered, by alignment",
			},
			[]string{"alignment"},
		),
		ticksSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pacepulse_line_ticks_sent_total",
				Help: "Total number of line ticks sent to backend",
			},
			[]string{"backend", "game_id"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pacepulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		livePace: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pacepulse_live_pace",
				Help: "Last computed live pace estimate for a game",
			},
			[]string{"game_id"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pacepulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordInsight records a rendered insight by its alignment verdict.
func (r *Recorder) RecordInsight(alignment string) {
	r.insightsBuilt.WithLabelValues(alignment).Inc()
}

// RecordTickSent records a line tick sent to a backend.
func (r *Recorder) RecordTickSent(backend, gameID string) {
	r.ticksSent.WithLabelValues(backend, gameID).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLivePace records the last computed pace for a game.
func (r *Recorder) RecordLivePace(gameID string, pace float64) {
	r.livePace.WithLabelValues(gameID).Set(pace)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
