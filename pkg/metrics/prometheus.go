package metrics

import (
	"TargetCast/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	forecastsTotal *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	probability    *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New registers the recorder's collectors with the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the recorder's collectors with reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		forecastsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "targetcast_forecasts_total",
				Help: "Forecast requests by coin and outcome kind",
			},
			[]string{"coin", "result"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "targetcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		probability: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "targetcast_last_probability_score",
				Help: "Probability score of the last forecast for a coin",
			},
			[]string{"coin"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "targetcast_operation_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"operation"},
		),
	}
}

// RecordForecast counts a finished forecast. An empty kind means success.
func (r *Recorder) RecordForecast(coinID string, kind models.Kind) {
	result := string(kind)
	if result == "" {
		result = "ok"
	}
	r.forecastsTotal.WithLabelValues(coinID, result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordProbability records the last probability score for a coin.
func (r *Recorder) RecordProbability(coinID string, score float64) {
	r.probability.WithLabelValues(coinID).Set(score)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordForecast(string, models.Kind) {}
func (Nop) RecordError(string) {}
func (Nop) RecordProbability(string, float64) {}
func (Nop) RecordLatency(string, float64) {}
