package http

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Timestamp   string `json:"timestamp"`
	Backend     string `json:"backend"`
	Environment string `json:"environment"`
}

// handleHealth never contacts the backend.
func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "healthy",
		Service:     serviceName,
		Timestamp:   a.now().UTC().Format(time.RFC3339Nano),
		Backend:     a.backendLabel,
		Environment: a.environment,
	})
}

func (a *API) handleHello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Hello from the storefront proxy!",
		"timestamp": a.now().UTC().Format(time.RFC3339Nano),
	})
}
