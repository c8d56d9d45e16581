// Package types contains common types used across the application
package types

// AnalyticsRow is one aggregated analytics entry for a banner.
type AnalyticsRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Impressions int64  `json:"impressions"`
	Clicks      int64  `json:"clicks"`
	CTR         string `json:"ctr"`
	Active      bool   `json:"active"`
}
