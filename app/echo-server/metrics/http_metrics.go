package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "travel_http_request_duration_seconds",
		Help:    "Latency of HTTP requests by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	RequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "travel_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})
)

func Init() {
	prometheus.MustRegister(RequestDuration, RequestTotal)
}

// Middleware records latency and status per route template, so /places/:id is one series.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !c.Response().Committed {
					status = 500
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method

			RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()

			return err
		}
	}
}
