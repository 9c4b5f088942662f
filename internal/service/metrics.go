package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline metrics. A nil *Metrics records nothing.
type Metrics struct {
	generations   *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// NewMetrics creates the pipeline metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "letter_generations_total",
				Help: "Total number of letter generation attempts by output format and outcome.",
			},
			[]string{"format", "outcome"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "letter_stage_duration_seconds",
				Help:    "Duration of each generation pipeline stage.",
				Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"stage"},
		),
	}

	for _, c := range []prometheus.Collector{m.generations, m.stageDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) countGeneration(format, outcome string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(format, outcome).Inc()
}
