package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"bannerd/internal/domain/model"
	"github.com/google/uuid"
)

// MemStore is an in-memory Store holding the banner catalog and its
// counters for the lifetime of the process. A single RWMutex serializes
// mutations, so concurrent counter increments are never lost and catalog
// readers never observe a half-applied update. Restarting the process
// resets all state.
type MemStore struct {
	mu       sync.RWMutex
	banners  map[string]*model.Banner
	order    []string // banner ids in insertion order
	counters map[string]*model.Counters
	idgen    func() string
}

// NewMemStore creates an empty in-memory banner store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		banners:  make(map[string]*model.Banner),
		counters: make(map[string]*model.Counters),
		idgen:    uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ListActive returns all active banners in insertion order.
func (s *MemStore) ListActive(ctx context.Context) ([]model.Banner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]model.Banner, 0, len(s.order))
	for _, id := range s.order {
		if b := s.banners[id]; b.Active {
			active = append(active, *b)
		}
	}

	return active, nil
}

// Create validates the supplied fields, applies defaults and appends a
// new banner to the catalog.
func (s *MemStore) Create(ctx context.Context, fields CreateFields) (model.Banner, error) {
	imageURL := strings.TrimSpace(fields.ImageURL)
	clickURL := strings.TrimSpace(fields.ClickURL)

	switch {
	case imageURL == "":
		return model.Banner{}, fmt.Errorf("%w: image_url is required", ErrValidation)
	case clickURL == "":
		return model.Banner{}, fmt.Errorf("%w: click_url is required", ErrValidation)
	}

	title := strings.TrimSpace(fields.Title)
	if title == "" {
		title = model.DefaultTitle
	}

	weight := fields.Weight
	if weight < model.MinWeight {
		weight = model.MinWeight
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := &model.Banner{
		ID:       s.idgen(),
		ImageURL: imageURL,
		ClickURL: clickURL,
		Title:    title,
		Weight:   weight,
		Active:   true,
		IsLocal:  fields.IsLocal,
	}
	s.banners[b.ID] = b
	s.order = append(s.order, b.ID)

	return *b, nil
}

// Update merges the provided fields into an existing banner. All fields
// are validated before any of them is applied.
func (s *MemStore) Update(ctx context.Context, id string, fields UpdateFields) (model.Banner, error) {
	if fields.ImageURL != nil && strings.TrimSpace(*fields.ImageURL) == "" {
		return model.Banner{}, fmt.Errorf("%w: image_url cannot be empty", ErrValidation)
	}
	if fields.ClickURL != nil && strings.TrimSpace(*fields.ClickURL) == "" {
		return model.Banner{}, fmt.Errorf("%w: click_url cannot be empty", ErrValidation)
	}
	if fields.Weight != nil && *fields.Weight < model.MinWeight {
		return model.Banner{}, fmt.Errorf("%w: weight must be at least %d", ErrValidation, model.MinWeight)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.banners[id]
	if !ok {
		return model.Banner{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if fields.ImageURL != nil {
		b.ImageURL = strings.TrimSpace(*fields.ImageURL)
	}
	if fields.ClickURL != nil {
		b.ClickURL = strings.TrimSpace(*fields.ClickURL)
	}
	if fields.Title != nil {
		b.Title = *fields.Title
	}
	if fields.Weight != nil {
		b.Weight = *fields.Weight
	}
	if fields.Active != nil {
		b.Active = *fields.Active
	}
	if fields.IsLocal != nil {
		b.IsLocal = *fields.IsLocal
	}

	return *b, nil
}

// Deactivate marks a banner inactive, keeping it in the catalog.
func (s *MemStore) Deactivate(ctx context.Context, id string) (model.Banner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.banners[id]
	if !ok {
		return model.Banner{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	b.Active = false

	return *b, nil
}

// RecordImpression increments the impression counter for id, creating
// the counter on first use. The id does not have to reference a catalog
// banner.
func (s *MemStore) RecordImpression(ctx context.Context, id string) (int64, error) {
	if strings.TrimSpace(id) == "" {
		return 0, fmt.Errorf("%w: banner_id is required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.counter(id)
	c.Impressions++

	return c.Impressions, nil
}

// RecordClick increments the click counter for id, creating the counter
// on first use.
func (s *MemStore) RecordClick(ctx context.Context, id string) (int64, error) {
	if strings.TrimSpace(id) == "" {
		return 0, fmt.Errorf("%w: banner_id is required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.counter(id)
	c.Clicks++

	return c.Clicks, nil
}

// Stats returns one entry per catalog banner, inactive included, in
// insertion order. Banners without recorded events carry zero counters.
func (s *MemStore) Stats(ctx context.Context) ([]Stat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make([]Stat, 0, len(s.order))
	for _, id := range s.order {
		st := Stat{Banner: *s.banners[id]}
		if c, ok := s.counters[id]; ok {
			st.Counters = *c
		}
		stats = append(stats, st)
	}

	return stats, nil
}

// Len returns the total and active banner counts.
func (s *MemStore) Len(ctx context.Context) (total, active int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.banners {
		if b.Active {
			active++
		}
	}

	return len(s.order), active
}

// counter returns the counters for id, creating them when absent.
// Callers must hold the write lock.
func (s *MemStore) counter(id string) *model.Counters {
	c, ok := s.counters[id]
	if !ok {
		c = &model.Counters{}
		s.counters[id] = c
	}
	return c
}
