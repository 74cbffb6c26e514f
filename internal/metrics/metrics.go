package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request surface
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knhaji_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "path", "status"},
	)

	// Buckets run up to 5s: multipart uploads are forwarded to the
	// image host inside the request.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "knhaji_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// Listing activity
	PostsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knhaji_posts_created_total",
			Help: "Total posts created",
		},
		[]string{"type"}, // "room" or "roommate"
	)

	PostsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knhaji_posts_deleted_total",
			Help: "Total posts physically removed",
		},
		[]string{"type"},
	)

	RepliesPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "knhaji_replies_posted_total",
			Help: "Total replies appended to roommate posts",
		},
	)

	ChatMessages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "knhaji_chat_messages_total",
			Help: "Total private chat messages appended",
		},
	)

	ImagesUploaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "knhaji_images_uploaded_total",
			Help: "Total images forwarded to the image host",
		},
	)

	ImageUploadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "knhaji_image_upload_failures_total",
			Help: "Total failed image forward attempts",
		},
	)

	AdminLogins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knhaji_admin_logins_total",
			Help: "Total admin credential checks",
		},
		[]string{"result"}, // "success" or "failure"
	)

	// Abuse controls
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knhaji_rate_limit_hits_total",
			Help: "Requests refused for exhausting a budget",
		},
		[]string{"endpoint"},
	)

	BlockedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knhaji_blocked_requests_total",
			Help: "Requests refused from blocked IPs",
		},
		[]string{"reason"},
	)

	// Storage metrics. An absent document is a normal first-boot read and is
	// not counted here; "unreadable" and "corrupt" mean data was present and
	// could not be used, even though callers are served an empty collection
	// either way.
	StorageReadDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knhaji_storage_read_degraded_total",
			Help: "Reads of a backing document that degraded to empty",
		},
		[]string{"document", "reason"}, // reason: "unreadable" or "corrupt"
	)
)
