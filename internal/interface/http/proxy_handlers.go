package http

import (
	"bytes"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// Hop-by-hop headers are connection-scoped and are not forwarded.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

func (a *API) handleGraphQLProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}
	defer r.Body.Close()

	req, err := http.NewRequestWithContext(r.Context(), r.Method, a.backendURL, bytes.NewReader(body))
	if err != nil {
		a.logger.Error("graphql proxy error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to proxy request to backend", err)
		return
	}
	req.Header = r.Header.Clone()
	for _, h := range hopHeaders {
		req.Header.Del(h)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("graphql proxy error", zap.String("backend", a.backendURL), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to proxy request to backend", err)
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "application/json")
	if enc := resp.Header.Get("Content-Encoding"); enc != "" {
		w.Header().Set("Content-Encoding", enc)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		a.logger.Warn("graphql proxy copy failed", zap.Error(err))
	}
}
