package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures metric constant labels.
type Config struct {
	ServiceName string
	Environment string
}

func (c Config) constLabels() prometheus.Labels {
	service := strings.TrimSpace(c.ServiceName)
	if service == "" {
		service = "homebuyer"
	}
	return prometheus.Labels{
		"service": service,
		"env":     strings.TrimSpace(c.Environment),
	}
}

// HTTPMetrics instruments the gin engine.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(cfg Config) *HTTPMetrics {
	labels := cfg.constLabels()
	return &HTTPMetrics{
		requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "homebuyer_http_requests_total",
			Help:        "HTTP requests by route, method and status.",
			ConstLabels: labels,
		}, []string{"route", "method", "status"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "homebuyer_http_request_duration_seconds",
			Help:        "HTTP request latency by route.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// GinMiddleware records request counts and latencies.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// FeedMetrics counts outbound calls to the external data feeds.
type FeedMetrics struct {
	fetches *prometheus.CounterVec
}

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeEmpty = "empty"
)

func NewFeedMetrics(cfg Config) *FeedMetrics {
	return &FeedMetrics{
		fetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "homebuyer_feed_fetches_total",
			Help:        "External feed fetches by feed and outcome.",
			ConstLabels: cfg.constLabels(),
		}, []string{"feed", "outcome"}),
	}
}

// RecordFetch increments the fetch counter for a feed.
func (m *FeedMetrics) RecordFetch(feed, outcome string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(feed, outcome).Inc()
}
