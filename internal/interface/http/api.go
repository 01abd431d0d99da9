package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"example.com/storefront/internal/infra/logging"
	"example.com/storefront/internal/infra/metrics"
)

const serviceName = "storefront-proxy"

// API is the forwarding layer in front of the order-fulfillment GraphQL
// backend. It holds no storefront state.
type API struct {
	backendURL     string
	backendLabel   string
	environment    string
	client         *http.Client
	logger         *zap.Logger
	metrics        *metrics.ServerMetrics
	metricsHandler http.Handler
	now            func() time.Time
}

type Dependencies struct {
	BackendURL     string
	BackendLabel   string
	Environment    string
	HTTPClient     *http.Client
	Logger         *zap.Logger
	Metrics        *metrics.ServerMetrics
	MetricsHandler http.Handler
}

func NewAPI(deps Dependencies) *API {
	a := &API{
		backendURL:     deps.BackendURL,
		backendLabel:   deps.BackendLabel,
		environment:    deps.Environment,
		client:         deps.HTTPClient,
		logger:         deps.Logger,
		metrics:        deps.Metrics,
		metricsHandler: deps.MetricsHandler,
		now:            time.Now,
	}
	if a.client == nil {
		a.client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.metrics == nil {
		a.metrics = metrics.NewServerMetrics(nil, "proxy")
	}
	if a.metricsHandler == nil {
		a.metricsHandler = metrics.Handler(nil)
	}
	if a.backendLabel == "" {
		a.backendLabel = "not configured"
	}
	if a.environment == "" {
		a.environment = "unknown"
	}
	return a
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.RequestLogger(a.logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler)

	proxy := a.instrument("graphql_proxy", http.HandlerFunc(a.handleGraphQLProxy))

	r.Get("/health", a.handleHealth)
	r.Get("/hello", a.handleHello)
	r.Handle("/metrics", a.metricsHandler)
	r.Handle("/graphql-proxy", proxy)

	r.Route("/.netlify/functions", func(r chi.Router) {
		r.Get("/health", a.handleHealth)
		r.Get("/hello", a.handleHello)
		r.Handle("/graphql-proxy", proxy)
	})

	return r
}

// Handler wraps the router with server-side tracing.
func (a *API) Handler() http.Handler {
	return otelhttp.NewHandler(a.Router(), serviceName)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func respondError(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Error: msg}
	if err != nil {
		resp.Message = err.Error()
	}
	writeJSON(w, status, resp)
}
