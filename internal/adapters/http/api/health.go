// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"
)

// HealthDependencies defines the interface for health reporting.
type HealthDependencies interface {
	Len(ctx context.Context) (total, active int)
}

// healthResponse is the wire shape of the health endpoint.
type healthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Banners int    `json:"banners"`
	Active  int    `json:"active"`
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps      HealthDependencies
	startedAt time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps HealthDependencies) *HealthHandler {
	return &HealthHandler{deps: deps, startedAt: time.Now()}
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	total, active := h.deps.Len(r.Context())
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Uptime:  time.Since(h.startedAt).Truncate(time.Second).String(),
		Banners: total,
		Active:  active,
	})
}
