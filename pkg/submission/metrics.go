package submission

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formpipe_submissions_total",
			Help: "Submit events by disposition and outcome.",
		},
		[]string{"disposition", "outcome"},
	)
	endpointDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "formpipe_endpoint_duration_seconds",
			Help:    "Duration of remote submission calls.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"outcome"},
	)
)

func observeResult(result Result) {
	outcome := ""
	if result.Submitted() {
		outcome = string(result.Outcome.Kind)
	}
	submissionsTotal.WithLabelValues(string(result.Disposition), outcome).Inc()
}
