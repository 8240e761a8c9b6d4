package metrics

import (
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medmitra",
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "Count of processed HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "medmitra",
		Subsystem: "api",
		Name:      "http_request_duration_seconds",
		Help:      "Latency distribution of HTTP handlers",
		Buckets:   histogramBuckets,
	}, []string{"method", "route", "status"})

	EmergencyDispatches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medmitra",
		Subsystem: "emergency",
		Name:      "dispatches_total",
		Help:      "Emergency dispatch outcomes",
	}, []string{"status"})

	EmergencyRecipients = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "medmitra",
		Subsystem: "emergency",
		Name:      "recipients_total",
		Help:      "Accounts that received an emergency alert",
	})
)

var registerOnce sync.Once

// Register adds every collector to reg. Collectors that are already present
// are left alone.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		collectors := []prometheus.Collector{HTTPRequests, HTTPLatency, EmergencyDispatches, EmergencyRecipients}
		for _, c := range collectors {
			if err := reg.Register(c); err != nil {
				var are prometheus.AlreadyRegisteredError
				if !errors.As(err, &are) {
					slog.Error("metrics registration failed", "error", err)
				}
			}
		}
	})
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

// Middleware records count and latency per matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		labels := prometheus.Labels{
			"method": c.Method(),
			"route":  c.Route().Path,
			"status": strconv.Itoa(status),
		}
		HTTPRequests.With(labels).Inc()
		HTTPLatency.With(labels).Observe(time.Since(start).Seconds())
		return err
	}
}
