package monitor

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WalletMetrics 签名核心的业务指标。
type WalletMetrics struct {
	SignaturesTotal      *prometheus.CounterVec
	SubmissionsTotal     *prometheus.CounterVec
	PendingQueryDuration prometheus.Histogram
}

// Wallet 全局指标实例。promauto 在包加载时注册到默认 Registry,
// 服务层可以直接打点, 不依赖显式 Init。
var Wallet = &WalletMetrics{
	SignaturesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_signatures_total",
		Help: "Total number of transaction signatures produced, by payload type",
	}, []string{"tx_type"}),
	SubmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_submissions_total",
		Help: "Total number of envelope submissions, by outcome",
	}, []string{"outcome"}),
	PendingQueryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wallet_pending_query_duration_seconds",
		Help:    "Duration of pending-transaction discovery passes",
		Buckets: prometheus.DefBuckets,
	}),
}

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wallet_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// PrometheusMiddleware HTTP 埋点。
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(
			c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
