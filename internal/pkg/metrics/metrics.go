package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RecordsTotal counts appended attendance events by kind.
	RecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_records_total",
		Help: "Number of attendance records created, by event type.",
	}, []string{"type"})

	// VerificationsTotal counts identity-gate outcomes.
	VerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_identity_verifications_total",
		Help: "Number of identity verifications performed, by outcome.",
	}, []string{"outcome"})

	// SimilarityScore observes the raw similarity scores the gate produced.
	SimilarityScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "attendance_identity_similarity_score",
		Help:    "Distribution of image similarity scores.",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})
)

// Handler exposes the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
