// Package middleware holds the gin middleware of the HTTP adapter.
package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/api-integration/internal/platform/logging"
)

const (
	// HeaderRequestID identifies a single request.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID identifies a business transaction that may span
	// several services and requests.
	HeaderCorrelationID = "X-Correlation-ID"

	// maxIDLength bounds caller-supplied IDs; longer values are replaced.
	maxIDLength = 128
)

type idKey int

const (
	requestIDKey idKey = iota
	correlationIDKey
)

// idHeader describes one propagated identifier.
type idHeader struct {
	header  string
	key     idKey
	logAttr string
}

var (
	requestIDHeader     = idHeader{header: HeaderRequestID, key: requestIDKey, logAttr: "request_id"}
	correlationIDHeader = idHeader{header: HeaderCorrelationID, key: correlationIDKey, logAttr: "correlation_id"}
)

// RequestID keeps a valid inbound X-Request-ID or generates a UUID v4. The
// ID is echoed in the response, stored in the request context for the
// upstream client, and attached to the context logger.
func RequestID() gin.HandlerFunc {
	return propagateID(requestIDHeader)
}

// CorrelationID does for X-Correlation-ID what RequestID does for
// X-Request-ID. A generated value marks this request as the start of the
// transaction.
func CorrelationID() gin.HandlerFunc {
	return propagateID(correlationIDHeader)
}

func propagateID(h idHeader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(h.header)
		if !validID(id) {
			id = uuid.NewString()
		}

		c.Header(h.header, id)

		ctx := context.WithValue(c.Request.Context(), h.key, id)
		ctx = logging.With(ctx, slog.String(h.logAttr, id))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// validID accepts non-empty visible ASCII up to maxIDLength, so inbound
// IDs cannot smuggle newlines or control bytes into logs and headers.
func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}

	for i := range len(id) {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}

	return true
}

func idFromContext(ctx context.Context, key idKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}

// RequestIDFromContext returns the request ID, or "" when none is set.
func RequestIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, requestIDKey)
}

// CorrelationIDFromContext returns the correlation ID, or "" when none is set.
func CorrelationIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, correlationIDKey)
}

// ContextWithRequestID stores a request ID in ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithCorrelationID stores a correlation ID in ctx.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// GetRequestID returns the request ID of the request being served.
func GetRequestID(c *gin.Context) string {
	return RequestIDFromContext(c.Request.Context())
}

// GetCorrelationID returns the correlation ID of the request being served.
func GetCorrelationID(c *gin.Context) string {
	return CorrelationIDFromContext(c.Request.Context())
}
