// Package repository defines the banner catalog store interface and errors.
package repository

import (
	"context"

	"bannerd/internal/domain/model"
)

// CreateFields carries the caller-supplied fields for a new banner.
// Title and Weight may be omitted; the store applies defaults.
type CreateFields struct {
	ImageURL string
	ClickURL string
	Title    string
	Weight   int
	IsLocal  bool
}

// UpdateFields carries a partial banner update. Nil fields keep the
// stored value. The banner id is immutable and has no field here.
type UpdateFields struct {
	ImageURL *string
	ClickURL *string
	Title    *string
	Weight   *int
	Active   *bool
	IsLocal  *bool
}

// Stat pairs a catalog banner with its raw interaction counters.
type Stat struct {
	Banner   model.Banner
	Counters model.Counters
}

// Store provides read/write access to the banner catalog and counters.
type Store interface {
	// ListActive returns all active banners in insertion order.
	ListActive(ctx context.Context) ([]model.Banner, error)

	// Create validates and appends a new banner to the catalog.
	// Returns ErrValidation when a required field is missing.
	Create(ctx context.Context, fields CreateFields) (model.Banner, error)

	// Update merges the provided fields into an existing banner.
	// Returns ErrNotFound for an unknown id and ErrValidation when a
	// provided field is invalid; nothing is applied on error.
	Update(ctx context.Context, id string, fields UpdateFields) (model.Banner, error)

	// Deactivate marks a banner inactive. Calling it on an already
	// inactive banner succeeds without effect.
	// Returns ErrNotFound for an unknown id.
	Deactivate(ctx context.Context, id string) (model.Banner, error)

	// RecordImpression increments the impression counter for id,
	// creating the counter when absent, whether or not a banner with
	// that id exists. Returns the new counter value.
	RecordImpression(ctx context.Context, id string) (int64, error)

	// RecordClick is the click-side counterpart of RecordImpression.
	RecordClick(ctx context.Context, id string) (int64, error)

	// Stats returns one entry per catalog banner, inactive included,
	// in insertion order.
	Stats(ctx context.Context) ([]Stat, error)

	// Len returns the total and active banner counts.
	Len(ctx context.Context) (total, active int)
}
