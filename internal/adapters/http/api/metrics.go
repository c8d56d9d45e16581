// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"bannerd/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler exposes the application metrics registry.
type MetricsHandler struct {
	inner http.Handler
}

// NewMetricsHandler creates a new metrics handler backed by the custom
// metrics registry.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{
		inner: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleMetrics handles GET /metrics requests.
func (h *MetricsHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.inner.ServeHTTP(w, r)
}
