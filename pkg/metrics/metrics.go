// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "astrodash_upstream_requests_total",
			Help: "Requests sent to the NASA API by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "astrodash_upstream_request_duration_seconds",
			Help:    "Duration of NASA API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "astrodash_http_requests_total",
			Help: "Inbound HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)

	PictureCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "astrodash_picture_cache_lookups_total",
			Help: "Picture of the day cache lookups by result",
		},
		[]string{"result"},
	)
)

const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport_error"
	OutcomeStatus    = "status_error"
	OutcomeDecode    = "decode_error"

	CacheHit  = "hit"
	CacheMiss = "miss"
)
