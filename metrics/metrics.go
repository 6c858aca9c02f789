package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter counts HTTP requests by route and status.
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds.
	RequestDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	PackChecksCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pillflow_pack_checks_created_total",
			Help: "Total number of pack checks recorded",
		},
	)

	// ScanOutsCreated is labelled by whether the pack had a check on file.
	ScanOutsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pillflow_scan_outs_created_total",
			Help: "Total number of packs scanned out",
		},
		[]string{"checked"},
	)

	DeliveryReminders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pillflow_delivery_reminders_total",
			Help: "Delivery reminders by outcome",
		},
		[]string{"status"},
	)
)

// Middleware records request count and duration. Unmatched routes are
// grouped under one path label.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		RequestCounter.WithLabelValues(method, path, status).Inc()
		RequestDurationHistogram.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
