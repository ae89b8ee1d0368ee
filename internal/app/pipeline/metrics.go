package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	apperrors "language-learner/internal/app/errors"
)

// Stage outcomes recorded in metrics.
const (
	OutcomeSuccess = "success"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Metrics counts stage executions for one run on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	stageTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "learner_stage_total",
			Help: "Pipeline stage executions by outcome.",
		}, []string{"stage", "outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "learner_stage_duration_seconds",
			Help:    "Wall time of executed pipeline stages.",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 1800, 3600},
		}, []string{"stage"}),
	}
	m.registry.MustRegister(m.stageTotal, m.stageDuration)
	return m
}

// Observe records one stage execution. Skipped stages carry no duration.
func (m *Metrics) Observe(stage Stage, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.stageTotal.WithLabelValues(stage.String(), outcome).Inc()
	if outcome != OutcomeSkipped {
		m.stageDuration.WithLabelValues(stage.String()).Observe(took.Seconds())
	}
}

// WriteTextfile writes the metrics in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return apperrors.Wrapf(err, apperrors.KindIO, "write metrics %s", path)
	}
	return nil
}
