package recommend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rushteam/prodsim/core"
)

var (
	// QueriesTotal counts queries.
	// Labels:
	//   - op: "product", "recommendations", "similar", "category_distribution"
	//   - outcome: "success", "not_found", "untrained", "error"
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prodsim_queries_total",
			Help: "Total number of similarity queries",
		},
		[]string{"op", "outcome"},
	)

	// QueryDuration measures query latency.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prodsim_query_duration_seconds",
			Help:    "Duration of similarity queries in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"op"},
	)

	// TrainingDuration measures full model builds.
	TrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prodsim_training_duration_seconds",
			Help:    "Duration of model training in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"outcome"},
	)

	// ModelItems is the number of products in the active model.
	ModelItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "prodsim_model_items",
		Help: "Number of products in the active model",
	})

	// ModelVersion increments every time a model is published.
	ModelVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "prodsim_model_version",
		Help: "Version counter of the active model",
	})
)

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case core.IsNotFound(err):
		return "not_found"
	case core.IsUntrained(err):
		return "untrained"
	default:
		return "error"
	}
}

func observeQuery(op string, start time.Time, err error) {
	QueriesTotal.WithLabelValues(op, outcome(err)).Inc()
	QueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
