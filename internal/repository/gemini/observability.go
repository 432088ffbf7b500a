package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

var (
	llmCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travel_llm_calls_total",
		Help: "Generative-language calls by outcome",
	}, []string{"status"})

	llmDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "travel_llm_call_duration_seconds",
		Help:    "Generative-language call latency",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
	}, []string{"status"})

	llmErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travel_llm_errors_total",
		Help: "Generative-language call failures by type",
	}, []string{"error_type"})

	breakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "travel_llm_circuit_breaker_state",
		Help: "Breaker state: 0 closed, 1 half-open, 2 open",
	})
)

func recordCall(elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
		llmErrors.WithLabelValues(classifyError(err)).Inc()
	}
	llmCalls.WithLabelValues(status).Inc()
	llmDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

// classifyError maps an error to a bounded label value.
func classifyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, ErrNoCandidates), errors.Is(err, ErrEmptyContent):
		return "empty_response"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return "timeout"
	case strings.Contains(msg, "returned 401"),
		strings.Contains(msg, "returned 403"),
		strings.Contains(msg, "api key"):
		return "auth"
	case strings.Contains(msg, "returned 429"),
		strings.Contains(msg, "resource_exhausted"):
		return "rate_limit"
	case strings.Contains(msg, "returned 5"):
		return "server"
	default:
		return "unknown"
	}
}
