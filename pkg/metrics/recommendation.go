package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommendations HTTP handler
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "travel_recommend_latency_seconds",
		Help:    "Latency of the personalized recommendations handler",
		Buckets: prometheus.DefBuckets,
	})

	// Requests by outcome: ok, empty, bad_request, error
	RecommendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "travel_recommend_requests_total",
		Help: "Total number of recommendation requests by outcome",
	}, []string{"outcome"})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendRequests,
	)
}
