package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BACKEND_GRAPHQL_URL", "PORT", "CONTEXT", "STOREFRONT_LOG_LEVEL", "STOREFRONT_LOG_FILE",
		"STOREFRONT_REQUEST_TIMEOUT", "STOREFRONT_SHUTDOWN_TIMEOUT", "STOREFRONT_CASH_DISMISS",
		"STOREFRONT_ONLINE_DISMISS", "STOREFRONT_MAX_CONCURRENT_PURCHASES", "STOREFRONT_METRICS_ADDR",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultBackendURL, cfg.BackendURL)
	require.Equal(t, "not configured", cfg.BackendLabel())
	require.Equal(t, 3*time.Second, cfg.CashDismissDelay)
	require.Equal(t, 2*time.Second, cfg.OnlineDismissDelay)
	require.Zero(t, cfg.MaxConcurrentPurchases)
	require.Empty(t, cfg.MetricsAddr)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend_url: http://eggs.internal/graphql
port: "9000"
log_level: debug
cash_dismiss_delay: 5s
max_concurrent_purchases: 4
metrics_addr: 127.0.0.1:9464
`), 0o600))
	t.Setenv("PORT", "9100")
	t.Setenv("STOREFRONT_ONLINE_DISMISS", "1500ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://eggs.internal/graphql", cfg.BackendURL)
	require.Equal(t, "http://eggs.internal/graphql", cfg.BackendLabel())
	require.Equal(t, "9100", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 5*time.Second, cfg.CashDismissDelay)
	require.Equal(t, 1500*time.Millisecond, cfg.OnlineDismissDelay)
	require.Equal(t, 4, cfg.MaxConcurrentPurchases)
	require.Equal(t, "127.0.0.1:9464", cfg.MetricsAddr)
}

func TestLoad_EnvBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_GRAPHQL_URL", "https://api.example.com/graphql")
	t.Setenv("CONTEXT", "production")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com/graphql", cfg.BackendLabel())
	require.Equal(t, "production", cfg.Environment)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("STOREFRONT_LOG_LEVEL", "loud")
	_, err := Load("")
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("STOREFRONT_CASH_DISMISS", "soon")
	_, err = Load("")
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("BACKEND_GRAPHQL_URL", "not a url")
	_, err = Load("")
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("STOREFRONT_METRICS_ADDR", "not an address")
	_, err = Load("")
	require.Error(t, err)

	clearEnv(t)
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
