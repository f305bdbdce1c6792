package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convo_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "convo_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "route"},
	)

	// Business metrics
	ConversationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convo_conversations_created_total",
			Help: "Conversations written to the store",
		},
		[]string{"type"}, // "direct" or "group"
	)

	DirectConversationsReused = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "convo_direct_conversations_reused_total",
			Help: "Direct chat requests answered with an existing conversation",
		},
	)

	DraftMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convo_group_draft_mutations_total",
			Help: "Group draft changes",
		},
		[]string{"op"}, // "add", "remove", "discard"
	)

	ValidationRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convo_validation_rejections_total",
			Help: "Requests rejected before any store call",
		},
		[]string{"reason"},
	)

	DirectorySearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convo_directory_searches_total",
			Help: "Directory list requests",
		},
		[]string{"scope"}, // "chat" or "group"
	)

	NotificationsPushed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convo_notifications_pushed_total",
			Help: "Frames pushed to user sessions",
		},
		[]string{"kind", "delivered"},
	)

	// Infrastructure metrics
	PostgresLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "convo_postgres_latency_seconds",
			Help:    "PostgreSQL query latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1},
		},
	)
)

// ObservePostgres records the elapsed time since start. Use with defer.
func ObservePostgres(start time.Time) {
	PostgresLatency.Observe(time.Since(start).Seconds())
}
