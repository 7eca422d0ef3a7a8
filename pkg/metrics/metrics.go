package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Business metrics
	FareEvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fare_evaluations_total",
			Help: "Total number of fare evaluations",
		},
		[]string{"model", "status"},
	)

	FareTotalMinor = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fare_total_minor_units",
			Help:    "Distribution of evaluated fare totals in minor currency units",
			Buckets: prometheus.ExponentialBuckets(500, 2, 10),
		},
		[]string{"model"},
	)

	ConfigRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_config_rejections_total",
			Help: "Total number of pricing configurations rejected by validation",
		},
		[]string{"kind", "reason"},
	)

	ConfigReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_config_reloads_total",
			Help: "Total number of pricing snapshot reloads",
		},
		[]string{"status"},
	)

	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"service", "operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"service", "queue", "status"},
	)

	RabbitMQMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_consumed_total",
			Help: "Total number of messages consumed from RabbitMQ",
		},
		[]string{"service", "queue", "status"},
	)

	SurgeCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surge_cache_lookups_total",
			Help: "Surge catalog cache lookups by result",
		},
		[]string{"result"},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordFareEvaluation records the outcome of one fare evaluation
func RecordFareEvaluation(model string, total int64, err error) {
	status := statusOf(err)
	FareEvaluationsTotal.WithLabelValues(model, status).Inc()
	if err == nil {
		FareTotalMinor.WithLabelValues(model).Observe(float64(total))
	}
}

// RecordConfigRejection records a configuration refused by validation
func RecordConfigRejection(kind, reason string) {
	ConfigRejectionsTotal.WithLabelValues(kind, reason).Inc()
}

// RecordReload records a snapshot reload
func RecordReload(err error) {
	ConfigReloadsTotal.WithLabelValues(statusOf(err)).Inc()
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(service, operation string, err error, duration time.Duration) {
	DatabaseQueriesTotal.WithLabelValues(service, operation, statusOf(err)).Inc()
	DatabaseQueryDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(service, queue string, err error) {
	RabbitMQMessagesPublished.WithLabelValues(service, queue, statusOf(err)).Inc()
}

// RecordRabbitMQConsume records RabbitMQ consume metrics
func RecordRabbitMQConsume(service, queue string, err error) {
	RabbitMQMessagesConsumed.WithLabelValues(service, queue, statusOf(err)).Inc()
}

// RecordSurgeCacheLookup records a hit or miss on the surge catalog cache
func RecordSurgeCacheLookup(hit bool) {
	if hit {
		SurgeCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	SurgeCacheLookups.WithLabelValues("miss").Inc()
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
