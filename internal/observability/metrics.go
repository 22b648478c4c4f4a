package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plantspace_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plantspace_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	relayActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "plantspace_relay_active_connections",
			Help: "Number of active relay connections.",
		},
	)
	relayEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plantspace_relay_events_total",
			Help: "Total number of relay events by type.",
		},
		[]string{"event"},
	)
	relayDroppedWritesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "plantspace_relay_dropped_writes_total",
			Help: "Total number of relay writes that failed and evicted a connection.",
		},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "plantspace_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		relayActiveConnections,
		relayEventsTotal,
		relayDroppedWritesTotal,
		amqpPublishErrorsTotal,
	)
}

// HTTPMetricsMiddleware records request counts and latencies per route.
func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncRelayActive() {
	relayActiveConnections.Inc()
}

func DecRelayActive() {
	relayActiveConnections.Dec()
}

func IncRelayEvent(event string) {
	relayEventsTotal.WithLabelValues(event).Inc()
}

func IncRelayDroppedWrite() {
	relayDroppedWritesTotal.Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
