// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/api-integration/internal/domain/result"
)

// ContentTypeProblem is the media type of every failure response (RFC 7807).
const ContentTypeProblem = "application/problem+json"

// Problem type URIs per error kind.
const (
	TypeBadRequest   = "https://tools.ietf.org/html/rfc7231#section-6.5.1"
	TypeNotFound     = "https://tools.ietf.org/html/rfc7231#section-6.5.4"
	TypeConflict     = "https://tools.ietf.org/html/rfc7231#section-6.5.8"
	TypeRateLimit    = "https://tools.ietf.org/html/rfc6585#section-4"
	TypeUnauthorized = "https://tools.ietf.org/html/rfc7235#section-3.1"
	TypeInternal     = "https://tools.ietf.org/html/rfc7231#section-6.6.1"

	TypeMethodNotAllowed = "https://tools.ietf.org/html/rfc7231#section-6.5.5"
)

// ErrSuccessResult is returned when a successful outcome is asked for a
// problem payload. A success never has one.
var ErrSuccessResult = errors.New("can't convert success result to problem")

// ProblemDetails is the failure payload. It carries the standard problem
// members plus the result envelope fields, so clients can branch on
// isSuccess/isFailure for both success and failure responses.
type ProblemDetails struct {
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Status    int            `json:"status"`
	Detail    string         `json:"detail"`
	Instance  string         `json:"instance"`
	IsSuccess bool           `json:"isSuccess"`
	IsFailure bool           `json:"isFailure"`
	Errors    []result.Error `json:"errors,omitempty"`
	Value     any            `json:"value"`
	TraceID   string         `json:"traceId,omitempty"`
}

// problemMapping is the transport rendition of an error kind.
type problemMapping struct {
	status int
	title  string
	typ    string
}

var problemMappings = map[result.Kind]problemMapping{
	result.KindValidation:   {http.StatusBadRequest, "Bad Request", TypeBadRequest},
	result.KindNotFound:     {http.StatusNotFound, "Not Found", TypeNotFound},
	result.KindConflict:     {http.StatusConflict, "Conflict", TypeConflict},
	result.KindRateLimit:    {http.StatusTooManyRequests, "Rate Limit Exceeded", TypeRateLimit},
	result.KindUnauthorized: {http.StatusUnauthorized, "Unauthorized", TypeUnauthorized},
}

var defaultMapping = problemMapping{http.StatusInternalServerError, "Internal Server Error", TypeInternal}

func mappingFor(kind result.Kind) problemMapping {
	if m, ok := problemMappings[kind]; ok {
		return m
	}

	return defaultMapping
}

// StatusFromKind returns the HTTP status for an error kind. Unknown kinds and
// KindFailure map to 500.
func StatusFromKind(kind result.Kind) int {
	return mappingFor(kind).status
}

// ToProblemDetails converts a failed outcome into a problem payload for r.
// A nil r yields an empty instance. Returns ErrSuccessResult for a success.
func ToProblemDetails(outcome result.Outcome, r *http.Request) (*ProblemDetails, error) {
	if outcome.IsSuccess() {
		return nil, ErrSuccessResult
	}

	err := outcome.Err()
	m := mappingFor(err.Kind())

	return &ProblemDetails{
		Type:      m.typ,
		Title:     m.title,
		Status:    m.status,
		Detail:    err.Description(),
		Instance:  Instance(r),
		IsSuccess: false,
		IsFailure: true,
		Errors:    []result.Error{err},
		Value:     nil,
	}, nil
}

// NewServerErrorProblem builds the payload for an unexpected failure such as a
// recovered panic. The type is the Go type of v.
func NewServerErrorProblem(v any, r *http.Request) *ProblemDetails {
	detail := fmt.Sprint(v)
	if err, ok := v.(error); ok {
		detail = err.Error()
	}

	return &ProblemDetails{
		Type:      fmt.Sprintf("%T", v),
		Title:     "Server Error",
		Status:    http.StatusInternalServerError,
		Detail:    detail,
		Instance:  Instance(r),
		IsSuccess: false,
		IsFailure: true,
	}
}

// NewStatusProblem builds a payload for router-level failures (no route,
// method not allowed) that never reach a handler.
func NewStatusProblem(status int, detail string, r *http.Request) *ProblemDetails {
	typ := TypeInternal
	switch status {
	case http.StatusNotFound:
		typ = TypeNotFound
	case http.StatusMethodNotAllowed:
		typ = TypeMethodNotAllowed
	}

	return &ProblemDetails{
		Type:      typ,
		Title:     http.StatusText(status),
		Status:    status,
		Detail:    detail,
		Instance:  Instance(r),
		IsSuccess: false,
		IsFailure: true,
	}
}

// Instance renders "<METHOD> <path> <?query>". The query part is empty when
// the request has none, leaving a trailing space.
func Instance(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}

	query := ""
	if r.URL.RawQuery != "" {
		query = "?" + r.URL.RawQuery
	}

	return r.Method + " " + r.URL.Path + " " + query
}

// WriteProblem writes p with the problem media type.
func WriteProblem(c *gin.Context, p *ProblemDetails) {
	p.TraceID = GetTraceID(c)
	c.Header("Content-Type", ContentTypeProblem)
	c.JSON(p.Status, p)
}

// AbortWithProblem writes p and stops the handler chain.
func AbortWithProblem(c *gin.Context, p *ProblemDetails) {
	WriteProblem(c, p)
	c.Abort()
}

// GetTraceID returns the trace ID for the request: the active OpenTelemetry
// span first, then a "trace_id" value set on the gin context.
func GetTraceID(c *gin.Context) string {
	if c.Request != nil {
		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
			return span.SpanContext().TraceID().String()
		}
	}

	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}

	return ""
}
