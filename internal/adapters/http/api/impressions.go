// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// InteractionDependencies defines the interface for interaction recording
type InteractionDependencies interface {
	RecordImpression(ctx context.Context, id string) (int64, error)
	RecordClick(ctx context.Context, id string) (int64, error)
}

// ImpressionsHandler handles impression reports
type ImpressionsHandler struct {
	deps InteractionDependencies
}

// NewImpressionsHandler creates a new impressions handler
func NewImpressionsHandler(deps InteractionDependencies) *ImpressionsHandler {
	return &ImpressionsHandler{deps: deps}
}

// HandleImpression handles POST /banners/impression requests
func (h *ImpressionsHandler) HandleImpression(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, ErrMethodNotAllowed)
		return
	}
	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	count, err := h.deps.RecordImpression(r.Context(), req.BannerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, impressionAck{Success: true, BannerID: req.BannerID, Impressions: count})
}
