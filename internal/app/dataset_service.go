// Package app contains application services that orchestrate use cases.
// Services depend on port interfaces, never on adapters, and hand domain
// Results back to the transport layer untouched.
package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/api-integration/internal/domain/dataset"
	"github.com/jsamuelsen/api-integration/internal/domain/result"
	"github.com/jsamuelsen/api-integration/internal/platform/logging"
	"github.com/jsamuelsen/api-integration/internal/ports"
)

// DatasetService orchestrates dataset metadata use cases.
type DatasetService struct {
	client ports.MetadataClient
	logger *slog.Logger
}

// DatasetServiceConfig contains the dependencies of a DatasetService.
type DatasetServiceConfig struct {
	MetadataClient ports.MetadataClient
	Logger         *slog.Logger
}

// NewDatasetService creates a dataset service with the provided dependencies.
// Panics if cfg.MetadataClient is nil.
func NewDatasetService(cfg DatasetServiceConfig) *DatasetService {
	if cfg.MetadataClient == nil {
		panic("app: DatasetService requires a MetadataClient")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DatasetService{
		client: cfg.MetadataClient,
		logger: logger.With(slog.String("component", "app.DatasetService")),
	}
}

// GetMetadata returns the metadata of one dataset. The id has already passed
// transport validation; range checks beyond that belong to the client.
func (s *DatasetService) GetMetadata(ctx context.Context, id int) result.Of[*dataset.Metadata] {
	logger := s.loggerFor(ctx).With(slog.Int("dataset_id", id))

	logger.DebugContext(ctx, "fetching dataset metadata")

	res := s.client.FetchByID(ctx, id)
	if res.IsFailure() {
		logger.WarnContext(ctx, "dataset metadata unavailable",
			slog.String("error_code", res.Err().Code()),
			slog.String("error_kind", res.Err().Kind().String()),
		)

		return res
	}

	if md := res.Value(); md != nil {
		logger.InfoContext(ctx, "fetched dataset metadata",
			slog.String("type", md.Type),
			slog.String("status", md.Status),
		)
	}

	return res
}

// loggerFor prefers the request logger, which carries request and correlation
// IDs, and falls back to the service logger.
func (s *DatasetService) loggerFor(ctx context.Context) *slog.Logger {
	if logging.HasLogger(ctx) {
		return logging.FromContext(ctx).With(slog.String("component", "app.DatasetService"))
	}

	return s.logger
}
