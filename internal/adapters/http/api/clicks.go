// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ClicksHandler handles click reports
type ClicksHandler struct {
	deps InteractionDependencies
}

// NewClicksHandler creates a new clicks handler
func NewClicksHandler(deps InteractionDependencies) *ClicksHandler {
	return &ClicksHandler{deps: deps}
}

// HandleClick handles POST /banners/click requests
func (h *ClicksHandler) HandleClick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, ErrMethodNotAllowed)
		return
	}
	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	count, err := h.deps.RecordClick(r.Context(), req.BannerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clickAck{Success: true, BannerID: req.BannerID, Clicks: count})
}
