package acl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/api-integration/internal/adapters/clients"
	"github.com/jsamuelsen/api-integration/internal/domain/dataset"
	"github.com/jsamuelsen/api-integration/internal/platform/config"
)

const fullDocument = `{
	"id": 245,
	"modifiedAtUtc": "2024-05-01T08:30:00Z",
	"type": "timeseries",
	"status": "active",
	"organization": "Fingrid",
	"nameEn": "Wind power generation - 15 min data",
	"nameFi": "Tuulivoimatuotanto - 15 min tiedot",
	"descriptionEn": "Finnish wind power generation.",
	"descriptionFi": null,
	"dataPeriodEn": "15 min",
	"dataPeriodFi": "15 min",
	"updateCadenceEn": "15 min",
	"updateCadenceFi": null,
	"unitEn": "MW",
	"unitFi": "MW",
	"contactPersons": "cp@example.com",
	"license": {"name": "CC BY 4.0", "termsLink": "https://creativecommons.org/licenses/by/4.0/"},
	"keyWordsEn": ["wind", "production"],
	"keyWordsFi": ["tuuli"],
	"contentGroupsEn": ["production"],
	"contentGroupsFi": null,
	"availableFormats": ["csv", "json"],
	"dataAvailableFromUtc": "2017-01-01T00:00:00"
}`

type testUpstream struct {
	calls  atomic.Int32
	path   atomic.Value
	apiKey atomic.Value
}

// setupMetadataClient creates a MetadataClient against a test upstream that
// answers every request with handler.
func setupMetadataClient(t *testing.T, handler http.HandlerFunc, mutate func(*clients.Config)) (*MetadataClient, *testUpstream, *httptest.Server) {
	t.Helper()

	up := &testUpstream{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up.calls.Add(1)
		up.path.Store(r.URL.Path)
		up.apiKey.Store(r.Header.Get("X-API-Key"))
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := &clients.Config{
		ServiceName: "fingrid",
		BaseURL:     server.URL + "/api/datasets/",
		Timeout:     5 * time.Second,
		AuthFunc:    clients.HeaderAuth("X-API-Key", "test-key"),
		Transport: config.TransportConfig{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     30 * time.Second,
		},
	}
	if mutate != nil {
		mutate(cfg)
	}

	client, err := clients.New(cfg)
	require.NoError(t, err)

	return NewMetadataClient(MetadataClientConfig{
		Client: client,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}), up, server
}

func respondWith(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestNewMetadataClient_PanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() {
		NewMetadataClient(MetadataClientConfig{Logger: slog.Default()})
	})
}

func TestMetadataClient_FetchByID_Success(t *testing.T) {
	mc, up, _ := setupMetadataClient(t, respondWith(http.StatusOK, fullDocument), nil)

	res := mc.FetchByID(context.Background(), 245)

	require.True(t, res.IsSuccess(), "unexpected failure: %v", res.Err())
	md := res.Value()
	require.NotNil(t, md)

	assert.Equal(t, "/api/datasets/245/", up.path.Load())
	assert.Equal(t, "test-key", up.apiKey.Load())
	assert.Equal(t, int32(1), up.calls.Load())

	assert.Equal(t, 245, md.ID)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC), md.ModifiedAt)
	assert.Equal(t, "Wind power generation - 15 min data", md.Name)
	require.NotNil(t, md.NameFi)
	assert.Equal(t, "Tuulivoimatuotanto - 15 min tiedot", *md.NameFi)
	assert.Nil(t, md.DescriptionFi)
	assert.Equal(t, "CC BY 4.0", md.License.Name)
	assert.Equal(t, []string{"wind", "production"}, md.Keywords)
	assert.Nil(t, md.ContentGroupsFi)
	require.NotNil(t, md.DataAvailableFrom)
	assert.Equal(t, time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), *md.DataAvailableFrom)
}

func TestMetadataClient_FetchByID_EmptyObject(t *testing.T) {
	mc, _, _ := setupMetadataClient(t, respondWith(http.StatusOK, `{}`), nil)

	res := mc.FetchByID(context.Background(), 1)

	require.True(t, res.IsSuccess())
	md := res.Value()
	assert.Equal(t, 0, md.ID)
	assert.Empty(t, md.Name)
	assert.True(t, md.ModifiedAt.IsZero())
	assert.NotNil(t, md.Keywords)
	assert.Empty(t, md.Keywords)
	assert.NotNil(t, md.ContentGroups)
	assert.NotNil(t, md.AvailableFormats)
	assert.Nil(t, md.DataAvailableFrom)
}

func TestMetadataClient_FetchByID_NonPositiveIDMakesNoCall(t *testing.T) {
	for _, id := range []int{0, -5} {
		mc, up, _ := setupMetadataClient(t, respondWith(http.StatusOK, fullDocument), nil)

		res := mc.FetchByID(context.Background(), id)

		require.True(t, res.IsFailure())
		assert.Equal(t, dataset.ZeroOrNegative, res.Err())
		assert.Equal(t, int32(0), up.calls.Load(), "id %d must not reach the upstream", id)
	}
}

func TestMetadataClient_FetchByID_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, dataset.DatasetNotFound},
		{"unauthorized", http.StatusUnauthorized, dataset.UnauthorizedAccess},
		{"rate limited", http.StatusTooManyRequests, dataset.RateLimitExceeded},
		{"forbidden", http.StatusForbidden, dataset.ExternalAPIError},
		{"server error", http.StatusInternalServerError, dataset.ExternalAPIError},
		{"bad gateway", http.StatusBadGateway, dataset.ExternalAPIError},
		{"redirect not followed", http.StatusNotModified, dataset.ExternalAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc, up, _ := setupMetadataClient(t, respondWith(tt.status, `{"detail":"nope"}`), nil)

			res := mc.FetchByID(context.Background(), 7)

			require.True(t, res.IsFailure())
			assert.Equal(t, tt.want, res.Err())
			assert.Equal(t, int32(1), up.calls.Load(), "no retry")
		})
	}
}

func TestMetadataClient_FetchByID_BadBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"id": 1,`},
		{"null", `null`},
		{"empty", ``},
		{"wrong type", `{"id": "one"}`},
		{"bad timestamp", `{"modifiedAtUtc": "yesterday"}`},
		{"array", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc, _, _ := setupMetadataClient(t, respondWith(http.StatusOK, tt.body), nil)

			res := mc.FetchByID(context.Background(), 3)

			require.True(t, res.IsFailure())
			assert.Equal(t, dataset.DeserializationFailure, res.Err())
		})
	}
}

func TestMetadataClient_FetchByID_Timeout(t *testing.T) {
	release := make(chan struct{})
	mc, _, _ := setupMetadataClient(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}, func(cfg *clients.Config) {
		cfg.Timeout = 50 * time.Millisecond
	})
	t.Cleanup(func() { close(release) })

	res := mc.FetchByID(context.Background(), 9)

	require.True(t, res.IsFailure())
	assert.Equal(t, dataset.RequestTimeout, res.Err())
}

func TestMetadataClient_FetchByID_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	mc, _, _ := setupMetadataClient(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}, nil)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	res := mc.FetchByID(ctx, 9)

	require.True(t, res.IsFailure())
	assert.Equal(t, dataset.RequestTimeout, res.Err())
}

func TestMetadataClient_FetchByID_ConnectionRefused(t *testing.T) {
	mc, _, server := setupMetadataClient(t, respondWith(http.StatusOK, fullDocument), nil)
	server.Close()

	res := mc.FetchByID(context.Background(), 9)

	require.True(t, res.IsFailure())
	assert.Equal(t, dataset.NetworkErrorCode, res.Err().Code())
	assert.Contains(t, res.Err().Description(), "Network error occurred: ")
}

func TestMetadataClient_FetchByID_CircuitOpen(t *testing.T) {
	mc, up, _ := setupMetadataClient(t, respondWith(http.StatusServiceUnavailable, ``), func(cfg *clients.Config) {
		cfg.Circuit = config.CircuitBreakerConfig{
			Enabled:       true,
			MaxFailures:   1,
			Timeout:       time.Hour,
			HalfOpenLimit: 1,
		}
	})

	first := mc.FetchByID(context.Background(), 4)
	assert.Equal(t, dataset.ExternalAPIError, first.Err())

	second := mc.FetchByID(context.Background(), 4)
	assert.Equal(t, dataset.ExternalAPIException, second.Err())
	assert.Equal(t, int32(1), up.calls.Load())
}

func TestMetadataClient_FetchByID_LogsErrorBody(t *testing.T) {
	var buf bytes.Buffer

	server := httptest.NewServer(respondWith(http.StatusInternalServerError, `{"detail":"upstream exploded"}`))
	t.Cleanup(server.Close)

	client, err := clients.New(&clients.Config{ServiceName: "fingrid", BaseURL: server.URL})
	require.NoError(t, err)

	mc := NewMetadataClient(MetadataClientConfig{
		Client: client,
		Logger: slog.New(slog.NewJSONHandler(&buf, nil)),
	})

	res := mc.FetchByID(context.Background(), 12)

	require.True(t, res.IsFailure())
	out := buf.String()
	assert.Contains(t, out, `"msg":"requesting dataset metadata"`)
	assert.Contains(t, out, `"msg":"upstream responded"`)
	assert.Contains(t, out, `"elapsed_ms"`)
	assert.Contains(t, out, `upstream exploded`)
	assert.Contains(t, out, `"error_code":"ExternalApi.Error"`)
}

func TestMetadataClient_Check(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"ok", http.StatusOK, false},
		{"unauthorized is reachable", http.StatusUnauthorized, false},
		{"server error", http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc, up, _ := setupMetadataClient(t, respondWith(tt.status, `{}`), nil)

			err := mc.Check(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, "/api/datasets/", up.path.Load())
		})
	}
}

func TestMetadataClient_CheckUnreachable(t *testing.T) {
	mc, _, server := setupMetadataClient(t, respondWith(http.StatusOK, `{}`), nil)
	server.Close()

	assert.Error(t, mc.Check(context.Background()))
	assert.Equal(t, HealthCheckName, mc.Name())
}
