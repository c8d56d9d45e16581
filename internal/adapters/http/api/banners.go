// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"bannerd/internal/adapters/repository"
	"bannerd/internal/domain/model"
)

// CatalogDependencies defines the interface for banner catalog operations
type CatalogDependencies interface {
	ListActive(ctx context.Context) ([]model.Banner, error)
	Create(ctx context.Context, fields repository.CreateFields) (model.Banner, error)
	Update(ctx context.Context, id string, fields repository.UpdateFields) (model.Banner, error)
	Deactivate(ctx context.Context, id string) (model.Banner, error)
}

// BannersHandler handles banner catalog requests
type BannersHandler struct {
	deps CatalogDependencies
}

// NewBannersHandler creates a new banners handler
func NewBannersHandler(deps CatalogDependencies) *BannersHandler {
	return &BannersHandler{deps: deps}
}

// HandleBanners handles GET /banners and POST /banners requests
func (h *BannersHandler) HandleBanners(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		writeError(w, ErrMethodNotAllowed)
	}
}

// HandleBannerByID handles PATCH /banners/{id} and DELETE /banners/{id} requests
func (h *BannersHandler) HandleBannerByID(w http.ResponseWriter, r *http.Request) {
	// Extract path parameter after /banners/
	id := strings.TrimPrefix(r.URL.Path, "/banners/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, ErrRouteNotFound)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		h.handleUpdate(w, r, id)
	case http.MethodDelete:
		h.handleDeactivate(w, r, id)
	default:
		writeError(w, ErrMethodNotAllowed)
	}
}

func (h *BannersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	banners, err := h.deps.ListActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]bannerResponse, len(banners))
	for i, b := range banners {
		out[i] = toBannerResponse(b)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *BannersHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createBannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	b, err := h.deps.Create(r.Context(), repository.CreateFields{
		ImageURL: req.ImageURL,
		ClickURL: req.ClickURL,
		Title:    req.Title,
		Weight:   req.Weight,
		IsLocal:  req.IsLocal,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bannerAck{Success: true, Banner: toBannerResponse(b)})
}

func (h *BannersHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req updateBannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	b, err := h.deps.Update(r.Context(), id, repository.UpdateFields{
		ImageURL: req.ImageURL,
		ClickURL: req.ClickURL,
		Title:    req.Title,
		Weight:   req.Weight,
		Active:   req.Active,
		IsLocal:  req.IsLocal,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bannerAck{Success: true, Banner: toBannerResponse(b)})
}

func (h *BannersHandler) handleDeactivate(w http.ResponseWriter, r *http.Request, id string) {
	b, err := h.deps.Deactivate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bannerAck{Success: true, Banner: toBannerResponse(b)})
}
