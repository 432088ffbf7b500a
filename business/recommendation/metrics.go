package recommendation

import "github.com/prometheus/client_golang/prometheus"

var (
	criteriaResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_criteria_resolutions_total",
			Help: "Search criteria resolutions by path (default, assisted, fallback)",
		},
		[]string{"path"},
	)

	candidatesRetrieved = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_candidates_retrieved",
			Help:    "Number of candidates returned by the retriever per request",
			Buckets: []float64{0, 1, 5, 10, 30, 60, 90, 150},
		},
	)
)

func init() {
	prometheus.MustRegister(criteriaResolutions, candidatesRetrieved)
}
