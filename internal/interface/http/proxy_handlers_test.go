package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"example.com/storefront/internal/infra/metrics"
)

type forwarded struct {
	Method      string
	ContentType string
	Custom      string
	Body        string
}

func setupProxy(t *testing.T, backend http.HandlerFunc) (http.Handler, *metrics.ServerMetrics) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	m := metrics.NewServerMetrics(prometheus.NewRegistry(), "proxy")
	api := NewAPI(Dependencies{
		BackendURL: srv.URL,
		HTTPClient: srv.Client(),
		Metrics:    m,
	})
	return api.Router(), m
}

func TestGraphQLProxy_ForwardsRequestVerbatim(t *testing.T) {
	seen := make(chan forwarded, 1)
	router, m := setupProxy(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen <- forwarded{
			Method:      r.Method,
			ContentType: r.Header.Get("Content-Type"),
			Custom:      r.Header.Get("X-Custom"),
			Body:        string(body),
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"eggs":[]}}`))
	})

	payload := `{"query":"query GetEggs { eggs { id } }"}`
	req := httptest.NewRequest(http.MethodPost, "/graphql-proxy", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Custom", "abc")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"data":{"eggs":[]}}`, rec.Body.String())

	got := <-seen
	require.Equal(t, http.MethodPost, got.Method)
	require.Equal(t, "application/json", got.ContentType)
	require.Equal(t, "abc", got.Custom)
	require.Equal(t, payload, got.Body)

	require.Equal(t, float64(1), testutil.ToFloat64(m.Requests.WithLabelValues("graphql_proxy", "200")))
}

func TestGraphQLProxy_PassesBackendStatusThrough(t *testing.T) {
	router, _ := setupProxy(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"message":"syntax error"}]}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/.netlify/functions/graphql-proxy", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "syntax error")
}

func TestGraphQLProxy_RejectsOtherMethods(t *testing.T) {
	called := make(chan struct{}, 1)
	router, _ := setupProxy(t, func(w http.ResponseWriter, r *http.Request) {
		called <- struct{}{}
	})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/graphql-proxy", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "Method not allowed", resp.Error)
	}
	require.Empty(t, called)
}

func TestGraphQLProxy_BackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	router := NewAPI(Dependencies{BackendURL: url}).Router()

	req := httptest.NewRequest(http.MethodPost, "/graphql-proxy", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Failed to proxy request to backend", resp.Error)
	require.NotEmpty(t, resp.Message)
}

func TestGraphQLProxy_Preflight(t *testing.T) {
	router, _ := setupProxy(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight must not reach the backend")
	})

	cases := map[string]string{
		"lowercase header": "content-type",
		"no headers":       "",
	}
	for name, headers := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/graphql-proxy", nil)
			req.Header.Set("Origin", "http://localhost:3000")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			if headers != "" {
				req.Header.Set("Access-Control-Request-Headers", headers)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Less(t, rec.Code, 300)
			require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

// rs/cors compares requested header names case-sensitively; browsers send
// them lowercased.
func TestGraphQLProxy_PreflightMixedCaseHeaderNotAllowed(t *testing.T) {
	router, _ := setupProxy(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight must not reach the backend")
	})

	req := httptest.NewRequest(http.MethodOptions, "/graphql-proxy", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Less(t, rec.Code, 300)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
