package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	api := NewAPI(Dependencies{
		BackendURL:   "http://127.0.0.1:1/graphql",
		BackendLabel: "http://127.0.0.1:1/graphql",
		Environment:  "production",
	})
	fixed := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	api.now = func() time.Time { return fixed }
	router := api.Router()

	for _, path := range []string{"/health", "/.netlify/functions/health"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		require.Equal(t, http.StatusOK, rec.Code, path)

		var resp healthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "healthy", resp.Status)
		require.Equal(t, "storefront-proxy", resp.Service)
		require.Equal(t, "2026-10-18T09:30:00Z", resp.Timestamp)
		require.Equal(t, "http://127.0.0.1:1/graphql", resp.Backend)
		require.Equal(t, "production", resp.Environment)
	}
}

func TestHealth_Defaults(t *testing.T) {
	router := NewAPI(Dependencies{}).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "not configured", resp.Backend)
	require.Equal(t, "unknown", resp.Environment)
}

func TestHello(t *testing.T) {
	router := NewAPI(Dependencies{}).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Hello from the storefront proxy!", resp["message"])
	require.NotEmpty(t, resp["timestamp"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := NewAPI(Dependencies{}).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}
