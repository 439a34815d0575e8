package api

import (
	"net/http"
	"strings"

	"github.com/okian/shotform/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz requests.
// If the Accept header asks for "application/openmetrics-text" or "text/plain",
// it returns Prometheus metrics. Otherwise, it returns JSON health status.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/openmetrics-text") || strings.Contains(accept, "text/plain") {
		h.metrics.ServeHTTP(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
