// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"bannerd/internal/adapters/repository"
	"bannerd/internal/domain/model"
	"bannerd/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CatalogDependencies
	InteractionDependencies
	AnalyticsDependencies
	PickDependencies
	HealthDependencies
}

// AnalyticsRow mirrors the read shape returned by analytics queries.
type AnalyticsRow = types.AnalyticsRow

// Server wires HTTP routes for the business API.
type Server struct {
	bannersHandler     *BannersHandler
	impressionsHandler *ImpressionsHandler
	clicksHandler      *ClicksHandler
	analyticsHandler   *AnalyticsHandler
	pickHandler        *PickHandler
	healthHandler      *HealthHandler
	metricsHandler     *MetricsHandler
	statsHandler       *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		bannersHandler:     NewBannersHandler(deps),
		impressionsHandler: NewImpressionsHandler(deps),
		clicksHandler:      NewClicksHandler(deps),
		analyticsHandler:   NewAnalyticsHandler(deps),
		pickHandler:        NewPickHandler(deps),
		healthHandler:      NewHealthHandler(deps),
		metricsHandler:     NewMetricsHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.metricsHandler.HandleMetrics)
	mux.HandleFunc("/stats", wrap(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/banners", wrap(s.bannersHandler.HandleBanners, "banners"))
	mux.HandleFunc("/banners/impression", wrap(s.impressionsHandler.HandleImpression, "impression"))
	mux.HandleFunc("/banners/click", wrap(s.clicksHandler.HandleClick, "click"))
	mux.HandleFunc("/banners/analytics", wrap(s.analyticsHandler.HandleAnalytics, "analytics"))
	mux.HandleFunc("/banners/pick", wrap(s.pickHandler.HandlePick, "pick"))
	mux.HandleFunc("/banners/", wrap(s.bannersHandler.HandleBannerByID, "banner_by_id"))
	mux.HandleFunc("/", handleNotFound)
}

// wrap applies the standard middleware chain to a handler. CORS sits
// outermost so preflight requests never reach logging or metrics.
func wrap(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return CORSMiddleware(LoggingMiddleware(MetricsMiddleware(next, endpoint), endpoint))
}

// handleNotFound is the JSON fallback for unmatched paths.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, ErrRouteNotFound)
}

// createBannerRequest mirrors the OpenAPI schema for POST /banners.
// Title and Weight may be omitted; the catalog applies defaults.
type createBannerRequest struct {
	ImageURL string `json:"image_url"`
	ClickURL string `json:"click_url"`
	Title    string `json:"title"`
	Weight   int    `json:"weight"`
	IsLocal  bool   `json:"is_local"`
}

// updateBannerRequest mirrors the OpenAPI schema for PATCH /banners/{id}.
// Absent fields keep their stored values.
type updateBannerRequest struct {
	ImageURL *string `json:"image_url"`
	ClickURL *string `json:"click_url"`
	Title    *string `json:"title"`
	Weight   *int    `json:"weight"`
	Active   *bool   `json:"active"`
	IsLocal  *bool   `json:"is_local"`
}

// interactionRequest carries the banner id named by an impression or
// click report.
type interactionRequest struct {
	BannerID string `json:"banner_id"`
}

// bannerResponse is the wire shape of one catalog banner.
type bannerResponse struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
	ClickURL string `json:"click_url"`
	Title    string `json:"title"`
	Weight   int    `json:"weight"`
	Active   bool   `json:"active"`
	IsLocal  bool   `json:"is_local"`
}

func toBannerResponse(b model.Banner) bannerResponse {
	return bannerResponse{
		ID:       b.ID,
		ImageURL: b.ImageURL,
		ClickURL: b.ClickURL,
		Title:    b.Title,
		Weight:   b.Weight,
		Active:   b.Active,
		IsLocal:  b.IsLocal,
	}
}

// bannerAck acknowledges a catalog mutation or a banner pick.
type bannerAck struct {
	Success bool           `json:"success"`
	Banner  bannerResponse `json:"banner"`
}

// impressionAck acknowledges a recorded impression with the running total.
type impressionAck struct {
	Success     bool   `json:"success"`
	BannerID    string `json:"banner_id"`
	Impressions int64  `json:"impressions"`
}

// clickAck acknowledges a recorded click with the running total.
type clickAck struct {
	Success  bool   `json:"success"`
	BannerID string `json:"banner_id"`
	Clicks   int64  `json:"clicks"`
}

// errorResponse is the uniform error body for every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err with the status implied by its kind.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), errorResponse{Error: err.Error()})
}

// statusForError translates error kinds to HTTP status codes. Kinds are
// matched by errors.Is so wrapped errors keep their classification.
func statusForError(err error) int {
	switch {
	case errors.Is(err, repository.ErrValidation), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, ErrRouteNotFound), errors.Is(err, ErrNoActiveBanners):
		return http.StatusNotFound
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
