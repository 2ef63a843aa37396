package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/api-integration/internal/domain/dataset"
	"github.com/jsamuelsen/api-integration/internal/domain/result"
	"github.com/jsamuelsen/api-integration/internal/mocks"
	"github.com/jsamuelsen/api-integration/internal/platform/logging"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewDatasetService_PanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() {
		NewDatasetService(DatasetServiceConfig{Logger: slog.Default()})
	})
}

func TestNewDatasetService_DefaultsLogger(t *testing.T) {
	svc := NewDatasetService(DatasetServiceConfig{
		MetadataClient: mocks.NewMockMetadataClient(t),
	})

	require.NotNil(t, svc)
	assert.NotNil(t, svc.logger)
}

func TestDatasetService_GetMetadata(t *testing.T) {
	md := &dataset.Metadata{ID: 245, Type: "timeseries", Status: "active", Name: "Wind power"}

	tests := []struct {
		name     string
		id       int
		returned result.Of[*dataset.Metadata]
		wantErr  result.Error
	}{
		{
			name:     "success passes the value through",
			id:       245,
			returned: result.Ok(md),
		},
		{
			name:     "not found passes through unchanged",
			id:       999,
			returned: result.Fail[*dataset.Metadata](dataset.DatasetNotFound),
			wantErr:  dataset.DatasetNotFound,
		},
		{
			name:     "network error passes through unchanged",
			id:       1,
			returned: result.Fail[*dataset.Metadata](dataset.NetworkError("connection refused")),
			wantErr:  dataset.NetworkError("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewMockMetadataClient(t)
			client.EXPECT().FetchByID(mock.Anything, tt.id).Return(tt.returned).Once()

			svc := NewDatasetService(DatasetServiceConfig{
				MetadataClient: client,
				Logger:         discardLogger(),
			})

			res := svc.GetMetadata(context.Background(), tt.id)

			if tt.wantErr.IsNone() {
				require.True(t, res.IsSuccess())
				assert.Same(t, md, res.Value())
				return
			}

			require.True(t, res.IsFailure())
			assert.Equal(t, tt.wantErr, res.Err())
		})
	}
}

func TestDatasetService_GetMetadata_OkNilIsPassedThrough(t *testing.T) {
	client := mocks.NewMockMetadataClient(t)
	client.EXPECT().FetchByID(mock.Anything, 7).Return(result.Ok[*dataset.Metadata](nil))

	svc := NewDatasetService(DatasetServiceConfig{MetadataClient: client, Logger: discardLogger()})

	res := svc.GetMetadata(context.Background(), 7)

	require.True(t, res.IsSuccess())
	assert.Nil(t, res.Value())
}

func TestDatasetService_GetMetadata_UsesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	requestLogger := slog.New(slog.NewJSONHandler(&buf, nil)).With(slog.String("request_id", "req-42"))
	ctx := logging.WithContext(context.Background(), requestLogger)

	client := mocks.NewMockMetadataClient(t)
	client.EXPECT().FetchByID(mock.Anything, 404).
		Return(result.Fail[*dataset.Metadata](dataset.DatasetNotFound))

	svc := NewDatasetService(DatasetServiceConfig{MetadataClient: client, Logger: discardLogger()})

	svc.GetMetadata(ctx, 404)

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-42"`)
	assert.Contains(t, out, `"error_code":"Dataset.NotFound"`)
	assert.Contains(t, out, `"error_kind":"NotFound"`)
	assert.Contains(t, out, `"dataset_id":404`)
}
