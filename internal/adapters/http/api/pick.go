// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"bannerd/internal/domain/model"
)

// PickDependencies defines the interface for weighted banner selection.
type PickDependencies interface {
	PickActive(ctx context.Context) (model.Banner, bool, error)
}

// PickHandler handles banner selection requests.
type PickHandler struct {
	deps PickDependencies
}

// NewPickHandler creates a new pick handler.
func NewPickHandler(deps PickDependencies) *PickHandler {
	return &PickHandler{deps: deps}
}

// HandlePick handles GET /banners/pick requests.
func (h *PickHandler) HandlePick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, ErrMethodNotAllowed)
		return
	}
	b, ok, err := h.deps.PickActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, ErrNoActiveBanners)
		return
	}
	writeJSON(w, http.StatusOK, bannerAck{Success: true, Banner: toBannerResponse(b)})
}
