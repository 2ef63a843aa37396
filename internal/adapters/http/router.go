package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/api-integration/internal/adapters/http/handlers"
	"github.com/jsamuelsen/api-integration/internal/adapters/http/middleware"
	"github.com/jsamuelsen/api-integration/internal/platform/config"
	"github.com/jsamuelsen/api-integration/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// APIPrefix is the path prefix of the versioned public API.
const APIPrefix = "/api/v1"

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// ServiceName names the service in telemetry spans.
	ServiceName string

	// HealthHandler serves the /-/ endpoints.
	HealthHandler *handlers.HealthHandler

	// MetadataHandler serves the dataset metadata endpoints.
	MetadataHandler *handlers.MetadataHandler

	// RateLimit configures the fingrid-external-api policy. Disabled leaves
	// the API group unthrottled.
	RateLimit config.RateLimitConfig

	// Timeout bounds API requests. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Global middleware, first to last:
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - server span, then OTel and Prometheus metrics
//  5. Logging - request logging (skips health endpoints)
//
// The API group adds the rate limiter and the request deadline.
// Unknown routes and methods get problem payloads.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(noRoute)
	engine.NoMethod(noMethod)

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging())

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(engine)
	}

	apiV1 := engine.Group(APIPrefix)

	if cfg.RateLimit.Enabled {
		apiV1.Use(middleware.RateLimit(middleware.RateLimitPolicy{
			Name:     middleware.PolicyFingridExternalAPI,
			Requests: cfg.RateLimit.Requests,
			Window:   cfg.RateLimit.Window,
			Burst:    cfg.RateLimit.Burst,
		}))
	}

	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.MetadataHandler != nil {
		cfg.MetadataHandler.RegisterRoutes(apiV1)
	}
}
