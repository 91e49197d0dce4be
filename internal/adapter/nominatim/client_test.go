package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-guardian/internal/domain"
	"github.com/couchcryptid/weather-guardian/internal/observability"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_Resolve_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Gardner, KS, USA", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))

		resp := []place{
			{Lat: "38.8108", Lon: "-94.9272", DisplayName: "Gardner, Johnson County, Kansas, 66030, United States"},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Resolve(context.Background(), "Gardner, KS")
	require.NoError(t, err)

	assert.Equal(t, 38.8108, result.Latitude)
	assert.Equal(t, -94.9272, result.Longitude)
	assert.Equal(t, "Gardner, Johnson County, Kansas, 66030, United States", result.FullAddress)
}

func TestClient_Resolve_CountryAlreadyNamed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Tulsa, United States", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode([]place{{Lat: "36.15", Lon: "-95.99", DisplayName: "Tulsa"}}))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Resolve(context.Background(), "Tulsa, United States")
	require.NoError(t, err)
}

func TestClient_Resolve_NotFoundIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Resolve(context.Background(), "Nowhereville123")

	ue, ok := domain.AsUpstream(err)
	require.True(t, ok, "empty result set must surface as an upstream envelope")
	assert.Equal(t, "geocoding", ue.Service)
	assert.Contains(t, ue.Message, "could not find the location")
	assert.Contains(t, ue.Message, "Nowhereville123")
}

func TestClient_Resolve_ServerErrorIsInternalFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Resolve(context.Background(), "Austin")

	require.Error(t, err)
	_, ok := domain.AsUpstream(err)
	assert.False(t, ok, "a 5xx is an internal fault, not a relayable envelope")
}

func TestClient_Resolve_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Resolve(context.Background(), "Austin")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Resolve_TimeoutIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 10 * time.Millisecond

	_, err := c.Resolve(context.Background(), "Austin")

	ue, ok := domain.AsUpstream(err)
	require.True(t, ok)
	assert.Contains(t, ue.Message, "timed out")
}

func TestBiasQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"66030", "66030, USA"},
		{"Gardner, KS", "Gardner, KS, USA"},
		{"Tulsa, USA", "Tulsa, USA"},
		{"Washington, United States", "Washington, United States"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, biasQuery(tt.in))
	}
}
