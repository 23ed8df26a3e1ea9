// Package metrics exposes Prometheus instrumentation for the API and
// the scheduler.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicketsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldops",
		Name:      "tickets_created_total",
		Help:      "Tickets created, by category and contract flag.",
	}, []string{"category", "contract"})

	ReadingsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fieldops",
		Name:      "meter_readings_recorded_total",
		Help:      "Meter readings accepted.",
	})

	ReadingsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldops",
		Name:      "meter_readings_rejected_total",
		Help:      "Meter readings rejected, by error code.",
	}, []string{"code"})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldops",
		Name:      "scheduler_notifications_sent_total",
		Help:      "Notifications dispatched by the periodic scans, by job.",
	}, []string{"job"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldops",
		Name:      "http_requests_total",
		Help:      "HTTP requests, by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fieldops",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Handler returns the /metrics endpoint handler.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
