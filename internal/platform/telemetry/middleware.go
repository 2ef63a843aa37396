package telemetry

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jsamuelsen/api-integration/telemetry"

// HeaderTraceID carries the trace ID of the server span back to the caller.
const HeaderTraceID = "X-Trace-ID"

// operationalPrefix marks the /-/ endpoints, which are neither traced nor
// measured.
const operationalPrefix = "/-/"

// unmatchedRoute labels requests that matched no route, keeping label
// cardinality bounded.
const unmatchedRoute = "unmatched"

// Metrics records HTTP server metrics twice: as OpenTelemetry instruments,
// exported over OTLP when telemetry is enabled, and as Prometheus collectors
// scraped from /-/metrics.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter

	promDuration *prometheus.HistogramVec
	promInFlight prometheus.Gauge
}

// NewMetrics creates the server instruments. Prometheus collectors are
// registered on reg; a collector that is already registered is reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	promDuration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_server_request_duration_seconds",
		Help:    "HTTP request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"}))
	if err != nil {
		return nil, err
	}

	promInFlight, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_server_requests_in_flight",
		Help: "Number of HTTP requests being served.",
	}))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		activeRequests:  activeRequests,
		promDuration:    promDuration,
		promInFlight:    promInFlight,
	}, nil
}

// register registers c, returning the existing collector when an identical
// one is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}

		return c, err
	}

	return c, nil
}

// Middleware returns the server span middleware followed by the metrics
// middleware. Register both, in order, with engine.Use.
func Middleware(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{Tracing(serviceName), MetricsMiddleware(prometheus.DefaultRegisterer)}
}

// Tracing starts a server span per request via otelgin. Operational
// endpoints are skipped.
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			return !strings.HasPrefix(r.URL.Path, operationalPrefix)
		}),
	)
}

// MetricsMiddleware measures each request and echoes the trace ID in the
// X-Trace-ID header. It must run after Tracing to see the server span.
func MetricsMiddleware(reg prometheus.Registerer) gin.HandlerFunc {
	metrics, err := NewMetrics(reg)
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, operationalPrefix) {
			c.Next()
			return
		}

		// Headers must be set before the handler writes the body.
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			c.Header(HeaderTraceID, sc.TraceID().String())
		}

		if metrics == nil {
			c.Next()
			return
		}

		metrics.observe(c)
	}
}

func (m *Metrics) observe(c *gin.Context) {
	ctx := c.Request.Context()
	start := time.Now()

	route := c.FullPath()
	if route == "" {
		route = unmatchedRoute
	}

	active := metric.WithAttributes(
		attribute.String("http.method", c.Request.Method),
		attribute.String("http.route", route),
	)

	m.activeRequests.Add(ctx, 1, active)
	m.promInFlight.Inc()

	defer func() {
		m.activeRequests.Add(ctx, -1, active)
		m.promInFlight.Dec()
	}()

	c.Next()

	elapsed := time.Since(start).Seconds()
	status := c.Writer.Status()

	done := metric.WithAttributes(
		attribute.String("http.method", c.Request.Method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	m.requestDuration.Record(ctx, elapsed, done)
	m.requestTotal.Add(ctx, 1, done)
	m.promDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Observe(elapsed)
}
