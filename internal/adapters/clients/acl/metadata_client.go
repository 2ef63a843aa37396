package acl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen/api-integration/internal/adapters/clients"
	"github.com/jsamuelsen/api-integration/internal/domain/dataset"
	"github.com/jsamuelsen/api-integration/internal/domain/result"
	"github.com/jsamuelsen/api-integration/internal/platform/logging"
)

// HealthCheckName names the upstream dependency on /-/ready.
const HealthCheckName = "fingrid-api"

// maxBodyBytes caps how much of an upstream body is read.
const maxBodyBytes = 4 << 20

// maxLoggedBody caps the error body copied into logs.
const maxLoggedBody = 512

// MetadataClientConfig contains configuration for the metadata client.
type MetadataClientConfig struct {
	// Client is the HTTP client to use for requests. Its BaseURL points at
	// the dataset collection, e.g. https://data.fingrid.fi/api/datasets/.
	Client *clients.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// MetadataClient implements ports.MetadataClient and ports.HealthChecker
// against the Fingrid open-data API.
type MetadataClient struct {
	client *clients.Client
	logger *slog.Logger
}

// NewMetadataClient creates a new metadata client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewMetadataClient(cfg MetadataClientConfig) *MetadataClient {
	if cfg.Client == nil {
		panic("MetadataClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &MetadataClient{
		client: cfg.Client,
		logger: logger.With(slog.String("component", "acl.MetadataClient")),
	}
}

// FetchByID fetches the metadata of one dataset with a single GET of
// {base}/{id}/. Every outcome is a Result; no error escapes.
func (c *MetadataClient) FetchByID(ctx context.Context, id int) result.Of[*dataset.Metadata] {
	logger := c.loggerFor(ctx).With(slog.Int("dataset_id", id))

	if id <= 0 {
		logger.DebugContext(ctx, "rejected non-positive dataset id")
		return result.Fail[*dataset.Metadata](dataset.ZeroOrNegative)
	}

	started := time.Now()
	logger.InfoContext(ctx, "requesting dataset metadata")

	resp, err := c.client.Get(ctx, strconv.Itoa(id)+"/")
	if err != nil {
		return c.transportFailure(ctx, logger, err, started)
	}
	defer func() { _ = resp.Body.Close() }()

	logger.InfoContext(ctx, "upstream responded",
		slog.Int("status", resp.StatusCode),
		slog.Int64("elapsed_ms", time.Since(started).Milliseconds()),
	)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return c.transportFailure(ctx, logger, fmt.Errorf("reading body: %w", err), started)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		mapped := MapStatus(resp.StatusCode)
		logger.WarnContext(ctx, "upstream returned an error status",
			slog.Int("status", resp.StatusCode),
			slog.String("error_code", mapped.Code()),
			slog.String("body", truncate(body, maxLoggedBody)),
		)

		return result.Fail[*dataset.Metadata](mapped)
	}

	ext, err := decodeJSON[externalMetadata](body)
	if err != nil {
		logger.ErrorContext(ctx, "failed to decode upstream body",
			slog.Any("error", err),
			slog.Int("body_bytes", len(body)),
		)

		return result.Fail[*dataset.Metadata](dataset.DeserializationFailure)
	}

	md := ext.toDomain()

	logger.Log(ctx, logging.LevelTrace, "translated upstream document",
		slog.String("type", md.Type),
		slog.Int("keywords", len(md.Keywords)),
	)

	return result.Ok(md)
}

// transportFailure logs and maps an error that left no usable response.
func (c *MetadataClient) transportFailure(ctx context.Context, logger *slog.Logger, err error, started time.Time) result.Of[*dataset.Metadata] {
	mapped := MapTransportError(err)
	elapsed := slog.Int64("elapsed_ms", time.Since(started).Milliseconds())

	switch {
	case mapped == dataset.RequestTimeout:
		logger.WarnContext(ctx, "upstream request timed out", elapsed, slog.Any("error", err))
	case isCircuitOpen(err):
		logger.WarnContext(ctx, "upstream request blocked by circuit breaker", elapsed)
	case mapped.Code() == dataset.NetworkErrorCode:
		logger.ErrorContext(ctx, "network error calling upstream", elapsed, slog.Any("error", err))
	default:
		logger.ErrorContext(ctx, "unexpected error calling upstream", elapsed, slog.Any("error", err))
	}

	return result.Fail[*dataset.Metadata](mapped)
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *MetadataClient) Name() string {
	return HealthCheckName
}

// Check reports the upstream unhealthy when the breaker is open or the host
// cannot be reached. Any HTTP answer below 500 counts as reachable, so a
// missing key does not flap readiness.
// Implements ports.HealthChecker.
func (c *MetadataClient) Check(ctx context.Context) error {
	if c.client.CircuitState() == clients.StateOpen {
		return clients.ErrCircuitOpen
	}

	resp, err := c.client.Get(ctx, "")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%s returned status %d", c.client.ServiceName(), resp.StatusCode)
	}

	return nil
}

func (c *MetadataClient) loggerFor(ctx context.Context) *slog.Logger {
	if logging.HasLogger(ctx) {
		return logging.FromContext(ctx).With(slog.String("component", "acl.MetadataClient"))
	}

	return c.logger
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}

	return string(b[:n]) + "..."
}
