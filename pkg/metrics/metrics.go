package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// namespace は全メトリクス名の接頭辞。
const namespace = "paygate"

// unmatchedRoute はルーティングされなかったリクエストに付けるrouteラベル。
const unmatchedRoute = "unmatched"

// Metrics はGatewayのメトリクス一式。
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	backendCallsTotal   *prometheus.CounterVec
	backendCallDuration *prometheus.HistogramVec

	rateLimitedTotal prometheus.Counter

	registry *prometheus.Registry
}

// New は新しいレジストリにメトリクスを登録して返す。
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		backendCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backend_calls_total",
				Help:      "Total number of backend gRPC calls by method and status code",
			},
			[]string{"method", "code"},
		),
		backendCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backend_call_duration_seconds",
				Help:      "Backend gRPC call latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		rateLimitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_total",
				Help:      "Total number of requests rejected by the rate limiter",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.backendCallsTotal,
		m.backendCallDuration,
		m.rateLimitedTotal,
	)

	return m
}

// Handler はメトリクスを公開するHTTPハンドラを返す。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry は内部のレジストリを返す。
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware はHTTPリクエスト数とレイテンシを記録するGinミドルウェアを返す。
// routeラベルにはルート定義のパスを使い、パスの値によってラベルが増えないようにする。
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method
		m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordRateLimited はレートリミットで拒否したリクエストを記録する。
func (m *Metrics) RecordRateLimited() {
	m.rateLimitedTotal.Inc()
}

// UnaryClientInterceptor はバックエンド呼び出しの結果とレイテンシを記録する
// gRPCクライアントインターセプタを返す。
func (m *Metrics) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		m.backendCallsTotal.WithLabelValues(method, status.Code(err).String()).Inc()
		m.backendCallDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		return err
	}
}
