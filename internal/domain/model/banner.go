// Package model contains domain models passed between layers.
package model

// Defaults applied when a banner is created with fields omitted.
const (
	// DefaultTitle is the placeholder label for banners created without one.
	DefaultTitle = "New Banner"
	// MinWeight is the smallest selection weight any banner may carry.
	MinWeight = 1
)

// Banner represents a single ad creative servable to clients.
type Banner struct {
	ID       string // unique identifier, immutable after creation
	ImageURL string // location of the creative asset, required
	ClickURL string // click-through destination, required
	Title    string // display label
	Weight   int    // relative selection probability, always >= MinWeight
	Active   bool   // eligible for public listing and selection
	IsLocal  bool   // bundled asset vs remotely fetched; informational only
}

// Counters holds the raw analytics counters for one banner id.
// Counters are created lazily on the first recorded event, grow
// monotonically, and may outlive the banner they reference.
type Counters struct {
	Impressions int64
	Clicks      int64
}
